package dispatcher

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// recordingProcessor records every call it receives.
type recordingProcessor struct {
	calls []string
	err   error
}

func (p *recordingProcessor) ProcessSheet(_ context.Context, sheet, book string) error {
	p.calls = append(p.calls, "sheet:"+sheet+":"+book)
	return p.err
}

func (p *recordingProcessor) ProcessBook(_ context.Context, book string) error {
	p.calls = append(p.calls, "book:"+book)
	return p.err
}

func (p *recordingProcessor) ProcessAllBooks(_ context.Context) error {
	p.calls = append(p.calls, "all")
	return p.err
}

type stubTranslator struct {
	fallbacks []string
	lookups   []string
}

func (t *stubTranslator) Trans(key string, _ map[string]string, domain string) string {
	t.lookups = append(t.lookups, domain+"/"+key)
	return "Translated text"
}

func (t *stubTranslator) SetFallbackLocales(locales []string) {
	t.fallbacks = locales
}

func TestRunDispatchesExactlyOneOperation(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		expected []string
	}{
		{"sheet and book", Params{Sheet: "common", Book: "frontend"}, []string{"sheet:common:frontend"}},
		{"book only", Params{Book: "frontend"}, []string{"book:frontend"}},
		{"no selectors", Params{}, []string{"all"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := &recordingProcessor{}
			translator := &stubTranslator{}
			var out bytes.Buffer

			if err := New(processor, translator, nil).Run(context.Background(), tt.params, &out); err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			if !reflect.DeepEqual(processor.calls, tt.expected) {
				t.Errorf("calls = %v, expected %v", processor.calls, tt.expected)
			}

			expectedLine := `Translation text for "homepage.title" in "es_ES": "Translated text"` + "\n"
			if out.String() != expectedLine {
				t.Errorf("output = %q, expected %q", out.String(), expectedLine)
			}
			if !reflect.DeepEqual(translator.fallbacks, []string{"en", "es_ES"}) {
				t.Errorf("fallbacks = %v", translator.fallbacks)
			}
			if !reflect.DeepEqual(translator.lookups, []string{"demo_frontend/homepage.title"}) {
				t.Errorf("lookups = %v", translator.lookups)
			}
		})
	}
}

func TestRunRejectsSheetWithoutBook(t *testing.T) {
	processor := &recordingProcessor{}
	translator := &stubTranslator{}
	var out bytes.Buffer

	err := New(processor, translator, nil).Run(context.Background(), Params{Sheet: "common"}, &out)
	if !errors.Is(err, ErrInvalidArguments) {
		t.Fatalf("expected ErrInvalidArguments, got %v", err)
	}
	if err.Error() != "book parameter is required for a given sheet" {
		t.Errorf("unexpected message %q", err.Error())
	}

	var invalid *InvalidArgumentsError
	if !errors.As(err, &invalid) {
		t.Errorf("expected *InvalidArgumentsError, got %T", err)
	}

	if len(processor.calls) != 0 || len(translator.lookups) != 0 || out.Len() != 0 {
		t.Errorf("nothing should run on invalid arguments: calls=%v lookups=%v out=%q",
			processor.calls, translator.lookups, out.String())
	}
}

func TestRunReturnsProcessorErrorUnchanged(t *testing.T) {
	failure := errors.New("spreadsheet not found")
	processor := &recordingProcessor{err: failure}
	translator := &stubTranslator{}
	var out bytes.Buffer

	err := New(processor, translator, nil).Run(context.Background(), Params{Book: "frontend"}, &out)
	if err != failure {
		t.Errorf("expected the processor error itself, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestParamsBranch(t *testing.T) {
	tests := []struct {
		params   Params
		expected Branch
	}{
		{Params{Sheet: "common", Book: "frontend"}, BranchSheet},
		{Params{Sheet: "common"}, BranchSheet},
		{Params{Book: "frontend"}, BranchBook},
		{Params{}, BranchAll},
	}

	for _, tt := range tests {
		if got := tt.params.Branch(); got != tt.expected {
			t.Errorf("%+v.Branch() = %s, expected %s", tt.params, got, tt.expected)
		}
	}
}

func TestParamsValidate(t *testing.T) {
	valid := []Params{{}, {Book: "frontend"}, {Sheet: "common", Book: "frontend"}}
	for _, p := range valid {
		if err := p.Validate(); err != nil {
			t.Errorf("%+v.Validate() = %v", p, err)
		}
	}

	err := Params{Sheet: "common"}.Validate()
	if err == nil || !strings.Contains(err.Error(), "book parameter is required") {
		t.Errorf("expected invalid arguments, got %v", err)
	}
}
