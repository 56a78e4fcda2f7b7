// =============================================================================
// Spreadsheet Translator - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It loads the configuration and
// parses every configured book without writing any catalog.
//
// COMMAND USAGE:
//   translator validate [--config translator.yaml]
//
// FLAGS:
//   --strict : Fail on warnings (missing translations, stray whitespace)
//
// OUTPUT:
//   Configuration: translator.yaml
//     ✓ frontend (demo_frontend.*.yml): 2 sheet(s), 14 key(s), locales en, es_ES
//       [WARNING] common row 7, key "homepage.cta", locale es_ES: missing translation
//     ✗ backend: open backend.csv: no such file or directory
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/spreadsheet-translator/internal/converter"
	"github.com/ginjaninja78/spreadsheet-translator/internal/locale"
	"github.com/ginjaninja78/spreadsheet-translator/internal/sheetreader"
	"github.com/ginjaninja78/spreadsheet-translator/internal/validation"
	"github.com/spf13/cobra"
)

// strict makes validation warnings fail the command.
var strict bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and parse every book",
	Long: `Load the configuration file and parse every configured book without
writing any catalog. Reports the sheets, keys and locales found per book,
then checks every translation for missing values and placeholder mismatches.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(
		&strict,
		"strict",
		false,
		"Fail on warnings as well as errors",
	)
}

func runValidate(cmd *cobra.Command) error {
	cfg, logger, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	conv := converter.New(cfg, logger)

	fmt.Fprintf(out, "Configuration: %s\n", cfgFile)
	if len(cfg.Books) == 0 {
		fmt.Fprintln(out, "  no books configured")
		return nil
	}

	failed := 0
	for _, book := range cfg.Books {
		wb, err := conv.OpenBook(book.Name)
		if err != nil {
			failed++
			fmt.Fprintf(out, "  ✗ %s: %v\n", book.Name, err)
			continue
		}

		sheets := wb.Sheets()
		required := make([]string, 0, len(book.Locales))
		for _, l := range book.Locales {
			required = append(required, locale.MustNormalize(l))
		}
		result := validation.NewValidator(validation.Options{
			TreatWarningsAsErrors: strict,
			RequiredLocales:       required,
		}).Validate(sheets)

		mark := "✓"
		if !result.IsValid {
			mark = "✗"
			failed++
		}
		fmt.Fprintf(out, "  %s %s (%s.*.%s): %d sheet(s), %d key(s), locales %s\n",
			mark, book.Name, book.Domain, book.CatalogFormat(), len(sheets), countKeys(sheets), strings.Join(sheetLocales(sheets), ", "))
		for _, issue := range result.Issues {
			fmt.Fprintf(out, "      %s\n", issue.Error())
		}
		logger.Debug("validated book", "book", book.Name, "entries", result.EntriesChecked,
			"errors", result.ErrorCount, "warnings", result.WarningCount)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d book(s) failed validation", failed, len(cfg.Books))
	}
	return nil
}

// countKeys returns the number of distinct keys across sheets.
func countKeys(sheets []*sheetreader.Sheet) int {
	keys := make(map[string]bool)
	for _, sheet := range sheets {
		for _, entry := range sheet.Entries {
			keys[entry.Key] = true
		}
	}
	return len(keys)
}

// sheetLocales returns the locales of all sheets in first-seen order.
func sheetLocales(sheets []*sheetreader.Sheet) []string {
	seen := make(map[string]bool)
	var locales []string
	for _, sheet := range sheets {
		for _, l := range sheet.Locales {
			if !seen[l] {
				seen[l] = true
				locales = append(locales, l)
			}
		}
	}
	return locales
}

