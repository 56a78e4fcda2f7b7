package translator

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ginjaninja78/spreadsheet-translator/internal/catalog"
)

func writeCatalog(t *testing.T, dir, domain, l string, messages map[string]string) {
	t.Helper()
	c := catalog.New(l, domain)
	for key, value := range messages {
		c.Set(key, value)
	}
	if _, err := catalog.Write(dir, c, catalog.FormatYAML); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}
}

func TestTransUsesCurrentLocaleFirst(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "demo_frontend", "en", map[string]string{"homepage.title": "Welcome"})
	writeCatalog(t, dir, "demo_frontend", "es_ES", map[string]string{"homepage.title": "Bienvenido"})

	tr := New(dir, "es-es")
	tr.SetFallbackLocales([]string{"en"})

	if got := tr.Trans("homepage.title", nil, "demo_frontend"); got != "Bienvenido" {
		t.Errorf("Trans = %q, expected Bienvenido", got)
	}
}

func TestTransFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "demo_frontend", "es", map[string]string{"homepage.cta": "Empieza"})
	writeCatalog(t, dir, "demo_frontend", "en", map[string]string{
		"homepage.cta":   "Start",
		"homepage.title": "Welcome",
	})

	tr := New(dir, "es_MX")
	tr.SetFallbackLocales([]string{"en", "es_ES"})

	tests := []struct {
		key      string
		expected string
	}{
		{"homepage.cta", "Empieza"},   // parent locale es
		{"homepage.title", "Welcome"}, // fallback en
		{"homepage.missing", "homepage.missing"},
	}

	for _, tt := range tests {
		if got := tr.Trans(tt.key, nil, "demo_frontend"); got != tt.expected {
			t.Errorf("Trans(%q) = %q, expected %q", tt.key, got, tt.expected)
		}
	}
}

func TestTransSubstitutesParameters(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "messages", "en", map[string]string{"greeting": "Hello %name%, you have %count% messages"})

	tr := New(dir, "en")

	got := tr.Trans("greeting", map[string]string{"%name%": "Ana", "%count%": "3"}, "")
	if got != "Hello Ana, you have 3 messages" {
		t.Errorf("Trans = %q", got)
	}

	// Missing keys still get their parameters applied.
	if got := tr.Trans("Bye %name%", map[string]string{"%name%": "Ana"}, ""); got != "Bye Ana" {
		t.Errorf("Trans = %q", got)
	}
}

func TestCatalogsAreLoadedLazily(t *testing.T) {
	dir := t.TempDir()
	tr := New(dir, "en")

	// Created before the catalog exists, like the demo command does.
	writeCatalog(t, dir, "demo_frontend", "en", map[string]string{"homepage.title": "Welcome"})

	if got := tr.Trans("homepage.title", nil, "demo_frontend"); got != "Welcome" {
		t.Errorf("Trans = %q, expected Welcome", got)
	}

	// Cached until Reset.
	if err := os.Remove(filepath.Join(dir, "demo_frontend.en.yml")); err != nil {
		t.Fatalf("Failed to remove catalog: %v", err)
	}
	if got := tr.Trans("homepage.title", nil, "demo_frontend"); got != "Welcome" {
		t.Errorf("expected cached value, got %q", got)
	}
	tr.Reset()
	if got := tr.Trans("homepage.title", nil, "demo_frontend"); got != "homepage.title" {
		t.Errorf("expected key after reset, got %q", got)
	}
}

func TestSetFallbackLocalesNormalizes(t *testing.T) {
	tr := New(t.TempDir(), "en", WithFallbackLocales([]string{"fr"}))
	tr.SetFallbackLocales([]string{"en", "es-es"})

	got := tr.FallbackLocales()
	if len(got) != 2 || got[0] != "en" || got[1] != "es_ES" {
		t.Errorf("FallbackLocales() = %v", got)
	}
}

func TestConcurrentLookups(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "demo_frontend", "en", map[string]string{"homepage.title": "Welcome"})
	tr := New(dir, "en")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := tr.Trans("homepage.title", nil, "demo_frontend"); got != "Welcome" {
				t.Errorf("Trans = %q", got)
			}
		}()
	}
	wg.Wait()
}
