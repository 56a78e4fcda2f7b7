package converter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/spreadsheet-translator/internal/catalog"
	"github.com/ginjaninja78/spreadsheet-translator/internal/config"
	"github.com/ginjaninja78/spreadsheet-translator/internal/sheetreader"
	"github.com/xuri/excelize/v2"
)

// newFixture writes a two-sheet frontend book and a CSV backend book to a
// temporary directory and returns the loaded configuration.
func newFixture(t *testing.T, extraConfig string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "common"); err != nil {
		t.Fatalf("Failed to rename sheet: %v", err)
	}
	if _, err := f.NewSheet("errors"); err != nil {
		t.Fatalf("Failed to create sheet: %v", err)
	}

	rows := map[string][][]interface{}{
		"common": {
			{"section", "key", "en", "es_ES"},
			{"homepage", "title", "Welcome", "Bienvenido"},
			{"", "subtitle", "Start here", "Empieza aquí"},
		},
		"errors": {
			{"section", "key", "en", "es_ES"},
			{"http", "not_found", "Not found", "No encontrado"},
		},
	}
	for sheet, sheetRows := range rows {
		for r, row := range sheetRows {
			cellName, _ := excelize.CoordinatesToCellName(1, r+1)
			if err := f.SetSheetRow(sheet, cellName, &row); err != nil {
				t.Fatalf("Failed to set row: %v", err)
			}
		}
	}
	if err := f.SaveAs(filepath.Join(dir, "frontend.xlsx")); err != nil {
		t.Fatalf("Failed to save book: %v", err)
	}

	csv := "key,en,es_ES\nlogin.submit,Sign in,Entrar\n"
	if err := os.WriteFile(filepath.Join(dir, "backend.csv"), []byte(csv), 0644); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}

	yml := `
output_dir: out
archive_dir: archive
books:
  - name: frontend
    source: frontend.xlsx
    domain: demo_frontend
    key_columns: 2
  - name: backend
    source: backend.csv
    format: json
` + extraConfig

	cfg, err := config.Parse([]byte(yml), dir)
	if err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}
	return cfg
}

func loadCatalog(t *testing.T, cfg *config.Config, domain, locale string) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(cfg.OutputDir, domain, locale)
	if err != nil {
		t.Fatalf("Failed to load catalog %s.%s: %v", domain, locale, err)
	}
	return c
}

func TestRunBookWritesOneCatalogPerLocale(t *testing.T) {
	cfg := newFixture(t, "")
	conv := New(cfg, nil)

	result := conv.RunBook(context.Background(), "frontend")
	if !result.Success() {
		t.Fatalf("RunBook failed: %v", result.Error)
	}

	if result.RunID == "" {
		t.Error("expected a run ID")
	}
	if result.Stats.SheetsProcessed != 2 || result.Stats.EntriesProcessed != 3 || result.Stats.CatalogsWritten != 2 {
		t.Errorf("unexpected stats: %+v", result.Stats)
	}

	expectedFiles := []string{
		filepath.Join(cfg.OutputDir, "demo_frontend.en.yml"),
		filepath.Join(cfg.OutputDir, "demo_frontend.es_ES.yml"),
	}
	for i, path := range expectedFiles {
		if i >= len(result.OutputFiles) || result.OutputFiles[i] != path {
			t.Errorf("OutputFiles = %v, expected %v", result.OutputFiles, expectedFiles)
			break
		}
	}

	es := loadCatalog(t, cfg, "demo_frontend", "es_ES")
	if v, _ := es.Get("homepage.title"); v != "Bienvenido" {
		t.Errorf("homepage.title = %q", v)
	}
	if v, _ := es.Get("http.not_found"); v != "No encontrado" {
		t.Errorf("http.not_found = %q", v)
	}
}

func TestProcessSheetMergesIntoExistingCatalog(t *testing.T) {
	cfg := newFixture(t, "")
	conv := New(cfg, nil)
	ctx := context.Background()

	if err := conv.ProcessBook(ctx, "frontend"); err != nil {
		t.Fatalf("ProcessBook failed: %v", err)
	}

	// A stale key in the existing catalog must be overwritten, other keys kept.
	en := loadCatalog(t, cfg, "demo_frontend", "en")
	en.Set("homepage.title", "Stale")
	if _, err := catalog.Write(cfg.OutputDir, en, catalog.FormatYAML); err != nil {
		t.Fatalf("Failed to rewrite catalog: %v", err)
	}

	result := conv.RunSheet(ctx, "common", "frontend")
	if !result.Success() {
		t.Fatalf("RunSheet failed: %v", result.Error)
	}
	if result.Stats.SheetsProcessed != 1 {
		t.Errorf("expected a single sheet, got %d", result.Stats.SheetsProcessed)
	}

	en = loadCatalog(t, cfg, "demo_frontend", "en")
	if v, _ := en.Get("homepage.title"); v != "Welcome" {
		t.Errorf("homepage.title = %q, expected Welcome", v)
	}
	if v, _ := en.Get("http.not_found"); v != "Not found" {
		t.Errorf("keys of other sheets must survive, got %q", v)
	}

	// The overwritten catalogs were backed up.
	backups, err := filepath.Glob(filepath.Join(cfg.ArchiveDir, "demo_frontend.en.yml.*"))
	if err != nil || len(backups) == 0 {
		t.Errorf("expected a backup of demo_frontend.en.yml, got %v (%v)", backups, err)
	}
}

func TestProcessSheetUnknownSheet(t *testing.T) {
	cfg := newFixture(t, "")
	err := New(cfg, nil).ProcessSheet(context.Background(), "missing", "frontend")
	if !errors.Is(err, sheetreader.ErrSheetNotFound) {
		t.Errorf("expected ErrSheetNotFound, got %v", err)
	}
}

func TestProcessBookUnknownBook(t *testing.T) {
	cfg := newFixture(t, "")
	err := New(cfg, nil).ProcessBook(context.Background(), "mobile")
	if !errors.Is(err, ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), `"mobile"`) {
		t.Errorf("expected the book name in the error, got %v", err)
	}
}

func TestProcessAllBooks(t *testing.T) {
	cfg := newFixture(t, "")
	if err := New(cfg, nil).ProcessAllBooks(context.Background()); err != nil {
		t.Fatalf("ProcessAllBooks failed: %v", err)
	}

	backend := loadCatalog(t, cfg, "backend", "es_ES")
	if v, _ := backend.Get("login.submit"); v != "Entrar" {
		t.Errorf("login.submit = %q", v)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "backend.es_ES.json")); err != nil {
		t.Errorf("expected JSON catalog: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "demo_frontend.en.yml")); err != nil {
		t.Errorf("expected YAML catalog: %v", err)
	}
}

func TestRunAllCollectsFailures(t *testing.T) {
	cfg := newFixture(t, "max_concurrency: 1\n")
	conv := New(cfg, nil)

	broken := errors.New("disk on fire")
	conv.openBook = func(path string, layout sheetreader.Layout) (*sheetreader.Workbook, error) {
		if strings.HasSuffix(path, ".csv") {
			return nil, broken
		}
		return sheetreader.Open(path, layout)
	}

	results := conv.RunAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Book != "frontend" || !results[0].Success() {
		t.Errorf("frontend should succeed: %+v", results[0])
	}
	if results[1].Book != "backend" || !errors.Is(results[1].Error, broken) {
		t.Errorf("backend should fail with the open error: %+v", results[1])
	}

	if err := conv.ProcessAllBooks(context.Background()); !errors.Is(err, broken) {
		t.Errorf("ProcessAllBooks should join the failure, got %v", err)
	}
}

func TestRunBookCancelledContext(t *testing.T) {
	cfg := newFixture(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(cfg, nil).ProcessBook(ctx, "frontend")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBuildCatalogsAppliesLocaleFilter(t *testing.T) {
	book := &config.BookConfig{Name: "frontend", Domain: "demo_frontend", Locales: []string{"es-es"}}
	sheets := []*sheetreader.Sheet{{
		Name:    "common",
		Locales: []string{"en", "es_ES"},
		Entries: []sheetreader.Entry{
			{Key: "homepage.title", Values: map[string]string{"en": "Welcome", "es_ES": "Bienvenido"}},
		},
	}}

	catalogs := buildCatalogs(book, sheets)
	if len(catalogs) != 1 {
		t.Fatalf("expected only es_ES, got %d catalogs", len(catalogs))
	}
	if v, _ := catalogs["es_ES"].Get("homepage.title"); v != "Bienvenido" {
		t.Errorf("homepage.title = %q", v)
	}
}

func TestOpenBook(t *testing.T) {
	cfg := newFixture(t, "")
	conv := New(cfg, nil)

	wb, err := conv.OpenBook("frontend")
	if err != nil {
		t.Fatalf("OpenBook failed: %v", err)
	}
	names := wb.SheetNames()
	if len(names) != 2 || names[0] != "common" || names[1] != "errors" {
		t.Errorf("SheetNames() = %v", names)
	}
	if _, err := os.Stat(cfg.OutputDir); !os.IsNotExist(err) {
		t.Errorf("OpenBook must not create the output directory, got %v", err)
	}

	if _, err := conv.OpenBook("mobile"); !errors.Is(err, ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
}

func TestRunAllStopOnError(t *testing.T) {
	cfg := newFixture(t, "max_concurrency: 1\nstop_on_error: true\n")
	conv := New(cfg, nil)

	broken := errors.New("corrupt workbook")
	conv.openBook = func(path string, layout sheetreader.Layout) (*sheetreader.Workbook, error) {
		if strings.HasSuffix(path, ".xlsx") {
			return nil, broken
		}
		return sheetreader.Open(path, layout)
	}

	results := conv.RunAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Book != "frontend" || !errors.Is(results[0].Error, broken) {
		t.Errorf("frontend should fail with the open error: %+v", results[0])
	}
	if results[1].Book != "backend" || !errors.Is(results[1].Error, context.Canceled) {
		t.Errorf("backend should be cancelled: %+v", results[1])
	}

	written, err := filepath.Glob(filepath.Join(cfg.OutputDir, "backend.*"))
	if err != nil || len(written) != 0 {
		t.Errorf("no backend catalog should be written, got %v (%v)", written, err)
	}
}

func TestRunBookReplacesCatalogInAnotherFormat(t *testing.T) {
	cfg := newFixture(t, "")
	conv := New(cfg, nil)

	old := catalog.New("en", "demo_frontend")
	old.Set("homepage.title", "OLD")
	oldPath, err := catalog.Write(cfg.OutputDir, old, catalog.FormatJSON)
	if err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}

	if result := conv.RunBook(context.Background(), "frontend"); !result.Success() {
		t.Fatalf("RunBook failed: %v", result.Error)
	}

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Errorf("expected %s to be removed, got %v", oldPath, err)
	}
	backups, err := filepath.Glob(filepath.Join(cfg.ArchiveDir, "demo_frontend.en.json.*"))
	if err != nil || len(backups) != 1 {
		t.Errorf("expected one backup of demo_frontend.en.json, got %v (%v)", backups, err)
	}

	en := loadCatalog(t, cfg, "demo_frontend", "en")
	if v, _ := en.Get("homepage.title"); v != "Welcome" {
		t.Errorf("homepage.title = %q, expected Welcome", v)
	}
}
