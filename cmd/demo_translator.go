// =============================================================================
// Spreadsheet Translator - Demo Command
// =============================================================================
//
// This file defines the 'demo:translator' command. It converts books into
// translation catalogs and prints one sample translation from the result.
//
// COMMAND USAGE:
//   translator demo:translator [--sheet-name SHEET] [--book-name BOOK]
//
// FLAGS:
//   --sheet-name, --sheet : Convert only this sheet (requires --book-name)
//   --book-name, --book   : Convert only this book
//
// PROCESSING PIPELINE:
//   1. Validate the flags
//   2. Load configuration and build the converter and translator
//   3. Convert the selected sheet, book, or every book
//   4. Print the translation of "homepage.title" in the demo_frontend domain
//
// =============================================================================

package cmd

import (
	"io"

	"github.com/ginjaninja78/spreadsheet-translator/internal/converter"
	"github.com/ginjaninja78/spreadsheet-translator/internal/dispatcher"
	"github.com/ginjaninja78/spreadsheet-translator/internal/logging"
	"github.com/ginjaninja78/spreadsheet-translator/internal/translator"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// sheetName selects a single sheet of the book.
var sheetName string

// bookName selects a single book.
var bookName string

// =============================================================================
// COLLABORATORS
// =============================================================================

// collaborators are the services the dispatcher drives.
type collaborators struct {
	processor  dispatcher.Processor
	translator dispatcher.Translator
	logger     logging.Logger
}

var (
	_ dispatcher.Processor  = (*converter.Converter)(nil)
	_ dispatcher.Translator = (*translator.Translator)(nil)
)

// newCollaborators builds the converter and translator from the
// configuration. Replaced in tests.
var newCollaborators = func(logOutput io.Writer) (*collaborators, error) {
	cfg, logger, err := loadConfig(logOutput)
	if err != nil {
		return nil, err
	}

	tr := translator.New(
		cfg.OutputDir,
		cfg.Translator.DefaultLocale,
		translator.WithLogger(logger),
		translator.WithFallbackLocales(cfg.Translator.FallbackLocales),
	)
	// The demo prints its lookup as es_ES, so it must look up in es_ES.
	tr.SetLocale(dispatcher.DemoLocale)

	return &collaborators{
		processor:  converter.New(cfg, logger),
		translator: tr,
		logger:     logger,
	}, nil
}

// =============================================================================
// DEMO COMMAND DEFINITION
// =============================================================================

var demoTranslatorCmd = &cobra.Command{
	Use:     "demo:translator",
	Aliases: []string{"atico:demo:translator"},
	Short:   "Translate From an Excel File to Symfony Translation format",
	Long: `Translate From an Excel File to Symfony Translation format.

Without flags every configured book is converted. --book-name converts a
single book and --sheet-name, which requires --book-name, a single sheet of
that book. The translation of "homepage.title" is printed afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemoTranslator(cmd)
	},
}

func init() {
	rootCmd.AddCommand(demoTranslatorCmd)

	demoTranslatorCmd.Flags().StringVar(
		&sheetName,
		"sheet-name",
		"",
		"Sheet to convert (requires --book-name)",
	)

	demoTranslatorCmd.Flags().StringVar(
		&bookName,
		"book-name",
		"",
		"Book to convert",
	)

	demoTranslatorCmd.Flags().SetNormalizeFunc(flagAliases)
}

// flagAliases accepts --sheet and --book as short spellings.
func flagAliases(f *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "sheet":
		name = "sheet-name"
	case "book":
		name = "book-name"
	}
	return pflag.NormalizedName(name)
}

// =============================================================================
// MAIN FUNCTION
// =============================================================================

// runDemoTranslator validates the flags before anything is loaded, so a sheet
// without a book fails even without a configuration file.
func runDemoTranslator(cmd *cobra.Command) error {
	params := dispatcher.Params{Sheet: sheetName, Book: bookName}
	if err := params.Validate(); err != nil {
		return err
	}

	deps, err := newCollaborators(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	d := dispatcher.New(deps.processor, deps.translator, deps.logger)
	return d.Run(cmd.Context(), params, cmd.OutOrStdout())
}
