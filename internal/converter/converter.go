// =============================================================================
// Spreadsheet Translator - Converter Module
// =============================================================================
//
// This module contains the spreadsheet-processing service. It converts books
// (spreadsheet files) into translation catalogs, one file per locale.
//
// CONVERSION PIPELINE (per book):
//   1. Look up the book configuration
//   2. Read the book file (all sheets, or a single sheet)
//   3. Build one catalog per locale
//   4. Merge into the existing catalogs (single sheet only)
//   5. Back up the previous catalog files
//   6. Write the new catalog files and remove catalogs of the same domain
//      and locale left in another format
//
// CONCURRENCY:
//   ProcessAllBooks converts every book in its own goroutine, bounded by
//   max_concurrency. Book domains are unique, so no two goroutines write the
//   same file.
//
// =============================================================================

package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ginjaninja78/spreadsheet-translator/internal/catalog"
	"github.com/ginjaninja78/spreadsheet-translator/internal/config"
	"github.com/ginjaninja78/spreadsheet-translator/internal/logging"
	"github.com/ginjaninja78/spreadsheet-translator/internal/sheetreader"
	"github.com/ginjaninja78/spreadsheet-translator/pkg/utils"
	"github.com/google/uuid"
)

// ErrBookNotFound is returned when a book name is not configured.
var ErrBookNotFound = errors.New("book not found")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a book or a single sheet.
type Result struct {
	// RunID identifies this run in log lines.
	RunID string

	// Book is the name of the processed book.
	Book string

	// Sheet is the processed sheet, empty when the whole book was processed.
	Sheet string

	// OutputFiles are the catalog files written, sorted.
	OutputFiles []string

	// Error contains the error if processing failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// Success reports whether the run finished without error.
func (r Result) Success() bool {
	return r.Error == nil
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// SheetsProcessed is the number of sheets read.
	SheetsProcessed int

	// EntriesProcessed is the number of translation keys read.
	EntriesProcessed int

	// CatalogsWritten is the number of catalog files written.
	CatalogsWritten int

	// ProcessingTime is the time taken to process the book.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter converts configured books into translation catalogs.
type Converter struct {
	cfg    *config.Config
	files  *utils.FileManager
	logger logging.Logger

	// openBook reads a book file. Replaced in tests.
	openBook func(path string, layout sheetreader.Layout) (*sheetreader.Workbook, error)
}

// New creates a new Converter instance.
//
// PARAMETERS:
//   - cfg: The loaded application configuration.
//   - logger: The logger for progress messages. Nil discards logs.
func New(cfg *config.Config, logger logging.Logger) *Converter {
	if logger == nil {
		logger = logging.Discard()
	}

	files := utils.NewFileManager(cfg.OutputDir, cfg.ArchiveDir)
	files.UseTimestampSubdirs = cfg.UseTimestampSubdirs

	return &Converter{
		cfg:      cfg,
		files:    files,
		logger:   logger,
		openBook: sheetreader.Open,
	}
}

// =============================================================================
// PROCESSOR OPERATIONS
// =============================================================================

// ProcessSheet converts a single sheet of a book and merges the result into
// the book's existing catalogs.
func (c *Converter) ProcessSheet(ctx context.Context, sheet, book string) error {
	return c.RunSheet(ctx, sheet, book).Error
}

// ProcessBook converts every sheet of a book.
func (c *Converter) ProcessBook(ctx context.Context, book string) error {
	return c.RunBook(ctx, book).Error
}

// ProcessAllBooks converts every configured book. Failures of individual
// books are joined into the returned error.
func (c *Converter) ProcessAllBooks(ctx context.Context) error {
	var errs []error
	for _, result := range c.RunAll(ctx) {
		if result.Error != nil {
			errs = append(errs, result.Error)
		}
	}
	return errors.Join(errs...)
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// RunBook converts every sheet of a book and reports the outcome.
func (c *Converter) RunBook(ctx context.Context, bookName string) Result {
	return c.run(ctx, bookName, "")
}

// RunSheet converts one sheet of a book and reports the outcome.
func (c *Converter) RunSheet(ctx context.Context, sheetName, bookName string) Result {
	return c.run(ctx, bookName, sheetName)
}

// run executes the conversion pipeline. An empty sheetName processes the
// whole book.
func (c *Converter) run(ctx context.Context, bookName, sheetName string) Result {
	startTime := time.Now()
	result := Result{
		RunID: uuid.NewString(),
		Book:  bookName,
		Sheet: sheetName,
	}

	fail := func(err error) Result {
		result.Error = fmt.Errorf("book %q: %w", bookName, err)
		result.Stats.ProcessingTime = time.Since(startTime)
		c.logger.Error("processing failed", "run", result.RunID, "book", bookName, "err", err)
		return result
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	// =========================================================================
	// STEP 1: LOOK UP THE BOOK
	// =========================================================================

	book, ok := c.cfg.Book(bookName)
	if !ok {
		return fail(ErrBookNotFound)
	}

	c.logger.Info("processing book", "run", result.RunID, "book", book.Name, "sheet", sheetName, "source", book.Source)

	// =========================================================================
	// STEP 2: READ THE BOOK FILE
	// =========================================================================

	wb, err := c.openBook(book.Source, layoutFor(book))
	if err != nil {
		return fail(err)
	}

	sheets := wb.Sheets()
	if sheetName != "" {
		sheet, err := wb.Sheet(sheetName)
		if err != nil {
			return fail(err)
		}
		sheets = []*sheetreader.Sheet{sheet}
	}

	result.Stats.SheetsProcessed = len(sheets)
	for _, sheet := range sheets {
		result.Stats.EntriesProcessed += len(sheet.Entries)
	}

	// =========================================================================
	// STEP 3: BUILD CATALOGS
	// =========================================================================

	catalogs := buildCatalogs(book, sheets)
	c.logger.Debug("built catalogs", "run", result.RunID, "book", book.Name, "locales", len(catalogs))

	// =========================================================================
	// STEP 4: MERGE INTO EXISTING CATALOGS (SINGLE SHEET)
	// =========================================================================
	// A single sheet only carries part of the domain; keys from the other
	// sheets must survive.

	format := book.CatalogFormat()

	if sheetName != "" {
		for l, cat := range catalogs {
			existing, err := catalog.LoadFormat(c.cfg.OutputDir, book.Domain, l, format)
			if errors.Is(err, catalog.ErrCatalogNotFound) {
				continue
			}
			if err != nil {
				return fail(err)
			}
			existing.Merge(cat)
			catalogs[l] = existing
		}
	}

	// =========================================================================
	// STEP 5 + 6: BACK UP AND WRITE
	// =========================================================================

	if err := c.files.EnsureDirectories(); err != nil {
		return fail(err)
	}

	for _, l := range sortedLocales(catalogs) {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		cat := catalogs[l]
		target := filepath.Join(c.cfg.OutputDir, catalog.FileName(cat.Domain, cat.Locale, format))

		backup, err := c.files.BackupFile(target)
		if err != nil {
			return fail(err)
		}
		if backup != "" {
			c.logger.Debug("backed up catalog", "run", result.RunID, "path", backup)
		}

		path, err := catalog.Write(c.cfg.OutputDir, cat, format)
		if err != nil {
			return fail(err)
		}

		result.OutputFiles = append(result.OutputFiles, path)
		result.Stats.CatalogsWritten++
		c.logger.Info("wrote catalog", "run", result.RunID, "path", path, "messages", cat.Len())

		// Catalogs left in another format would shadow the new one.
		for _, stale := range catalog.Stale(c.cfg.OutputDir, cat.Domain, cat.Locale, format) {
			if _, err := c.files.BackupFile(stale); err != nil {
				return fail(err)
			}
			if err := os.Remove(stale); err != nil {
				return fail(fmt.Errorf("failed to remove stale catalog: %w", err))
			}
			c.logger.Info("removed stale catalog", "run", result.RunID, "path", stale)
		}
	}

	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// OpenBook reads the named book without writing anything.
func (c *Converter) OpenBook(bookName string) (*sheetreader.Workbook, error) {
	book, ok := c.cfg.Book(bookName)
	if !ok {
		return nil, fmt.Errorf("book %q: %w", bookName, ErrBookNotFound)
	}

	wb, err := c.openBook(book.Source, layoutFor(book))
	if err != nil {
		return nil, fmt.Errorf("book %q: %w", bookName, err)
	}
	return wb, nil
}

// RunAll converts every configured book concurrently and returns one result
// per book, in configuration order.
func (c *Converter) RunAll(ctx context.Context) []Result {
	names := c.cfg.BookNames()
	if len(names) == 0 {
		c.logger.Warn("no books configured")
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	limit := c.cfg.MaxConcurrency
	if limit < 1 {
		limit = 1
	}
	semaphore := make(chan struct{}, limit)

	// Create a WaitGroup to wait for all goroutines to complete.
	var wg sync.WaitGroup

	// The channel is buffered to prevent blocking.
	results := make(chan Result, len(names))

	// Slots are taken in configuration order, so books start in that order.
	for _, name := range names {
		acquired := false
		select {
		case semaphore <- struct{}{}:
			acquired = true
		case <-ctx.Done():
		}
		if err := ctx.Err(); err != nil {
			if acquired {
				<-semaphore
			}
			results <- Result{Book: name, Error: fmt.Errorf("book %q: %w", name, err)}
			continue
		}

		wg.Add(1)

		go func(bookName string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			result := c.RunBook(ctx, bookName)
			if result.Error != nil && c.cfg.StopOnError {
				cancel()
			}
			results <- result
		}(name)
	}

	// Close the results channel when all goroutines are done.
	go func() {
		wg.Wait()
		close(results)
	}()

	byBook := make(map[string]Result, len(names))
	for result := range results {
		byBook[result.Book] = result
	}

	ordered := make([]Result, 0, len(names))
	for _, name := range names {
		ordered = append(ordered, byBook[name])
	}
	return ordered
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// layoutFor converts a book configuration to a reader layout.
func layoutFor(book *config.BookConfig) sheetreader.Layout {
	layout := sheetreader.Layout{
		KeyColumns:   book.KeyColumns,
		HeaderRow:    book.HeaderRow,
		KeySeparator: book.KeySeparator,
		Delimiter:    ',',
	}
	if r := []rune(book.Delimiter); len(r) == 1 {
		layout.Delimiter = r[0]
	}
	return layout
}

// buildCatalogs creates one catalog per locale from the given sheets.
// Every locale column yields a catalog, even when all its cells are blank.
func buildCatalogs(book *config.BookConfig, sheets []*sheetreader.Sheet) map[string]*catalog.Catalog {
	filter := book.LocaleFilter()
	catalogs := make(map[string]*catalog.Catalog)

	for _, sheet := range sheets {
		for _, l := range sheet.Locales {
			if filter != nil && !filter[l] {
				continue
			}
			if _, ok := catalogs[l]; !ok {
				catalogs[l] = catalog.New(l, book.Domain)
			}
		}

		for _, entry := range sheet.Entries {
			for l, value := range entry.Values {
				if cat, ok := catalogs[l]; ok {
					cat.Set(entry.Key, value)
				}
			}
		}
	}

	return catalogs
}

// sortedLocales returns the catalog locales in sorted order.
func sortedLocales(catalogs map[string]*catalog.Catalog) []string {
	locales := make([]string, 0, len(catalogs))
	for l := range catalogs {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}
