// Package dispatcher implements the demo:translator command logic.
//
// A run validates the sheet and book selectors, triggers exactly one
// conversion on the Processor, then prints one sample translation:
//
//	sheet and book  -> ProcessSheet(sheet, book)
//	book only       -> ProcessBook(book)
//	neither         -> ProcessAllBooks()
//	sheet only      -> InvalidArgumentsError
package dispatcher

import (
	"context"
	"fmt"
	"io"

	"github.com/ginjaninja78/spreadsheet-translator/internal/logging"
)

// Fixed demonstration lookup.
const (
	DemoKey    = "homepage.title"
	DemoLocale = "es_ES"
	DemoDomain = "demo_frontend"
)

// DemoFallbackLocales are set on the Translator before the demo lookup.
var DemoFallbackLocales = []string{"en", "es_ES"}

// Processor converts books into translation catalogs.
type Processor interface {
	ProcessSheet(ctx context.Context, sheet, book string) error
	ProcessBook(ctx context.Context, book string) error
	ProcessAllBooks(ctx context.Context) error
}

// Translator looks up translated messages.
type Translator interface {
	Trans(key string, params map[string]string, domain string) string
	SetFallbackLocales(locales []string)
}

// Branch identifies the Processor operation selected by a set of Params.
type Branch int

const (
	BranchAll Branch = iota
	BranchBook
	BranchSheet
)

func (b Branch) String() string {
	switch b {
	case BranchSheet:
		return "sheet"
	case BranchBook:
		return "book"
	default:
		return "all"
	}
}

// Params holds the optional selectors of a run. Empty means absent.
type Params struct {
	Sheet string
	Book  string
}

// Validate rejects a sheet given without its book.
func (p Params) Validate() error {
	if p.Sheet != "" && p.Book == "" {
		return &InvalidArgumentsError{Reason: "book parameter is required for a given sheet"}
	}
	return nil
}

// Branch returns the operation these Params select. The first match wins.
func (p Params) Branch() Branch {
	switch {
	case p.Sheet != "":
		return BranchSheet
	case p.Book != "":
		return BranchBook
	default:
		return BranchAll
	}
}

// Dispatcher runs the demo command against its collaborators.
type Dispatcher struct {
	processor  Processor
	translator Translator
	logger     logging.Logger
}

// New creates a Dispatcher. A nil logger discards logs.
func New(processor Processor, translator Translator, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Dispatcher{
		processor:  processor,
		translator: translator,
		logger:     logger,
	}
}

// Run validates params, invokes one Processor operation and writes the demo
// translation line to w. Processor errors are returned as-is and nothing is
// written in that case.
func (d *Dispatcher) Run(ctx context.Context, params Params, w io.Writer) error {
	if err := params.Validate(); err != nil {
		return err
	}

	branch := params.Branch()
	d.logger.Debug("dispatching", "branch", branch, "sheet", params.Sheet, "book", params.Book)

	var err error
	switch branch {
	case BranchSheet:
		err = d.processor.ProcessSheet(ctx, params.Sheet, params.Book)
	case BranchBook:
		err = d.processor.ProcessBook(ctx, params.Book)
	default:
		err = d.processor.ProcessAllBooks(ctx)
	}
	if err != nil {
		return err
	}

	d.translator.SetFallbackLocales(DemoFallbackLocales)
	text := d.translator.Trans(DemoKey, nil, DemoDomain)

	_, err = fmt.Fprintf(w, "Translation text for \"%s\" in \"%s\": \"%s\"\n", DemoKey, DemoLocale, text)
	return err
}
