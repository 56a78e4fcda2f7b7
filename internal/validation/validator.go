// =============================================================================
// Spreadsheet Translator - Validation Engine
// =============================================================================
//
// This module checks parsed sheets for translation problems before they are
// turned into catalogs.
//
// CHECKS:
//   - Missing translation: a locale column has no value for a key (warning)
//   - Placeholder mismatch: a translation does not use the same placeholders
//     (%name%, {count}) as the reference locale (error)
//   - Surrounding whitespace in a translation (warning)
//   - Required locale: a configured locale has no column in the sheet (error)
//
// ERROR HANDLING:
//   - Issues are collected, not returned one by one
//   - Each issue carries its sheet, row, key and locale
//   - Warnings only fail validation when TreatWarningsAsErrors is set
//
// =============================================================================

package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ginjaninja78/spreadsheet-translator/internal/sheetreader"
)

// Severity levels of an Issue.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// placeholderPattern matches %name% and {name} style parameters.
var placeholderPattern = regexp.MustCompile(`%[A-Za-z0-9_.]+%|\{[A-Za-z0-9_.]+\}`)

// =============================================================================
// VALIDATION ISSUE TYPES
// =============================================================================

// Issue represents a single validation problem.
type Issue struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Sheet is the sheet containing the problem.
	Sheet string

	// Row is the 1-based source row, 0 for sheet-level issues.
	Row int

	// Key is the translation key, empty for sheet-level issues.
	Key string

	// Locale is the locale column concerned.
	Locale string

	// Rule names the violated check.
	Rule string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Issue) Error() string {
	location := e.Sheet
	if e.Row > 0 {
		location = fmt.Sprintf("%s row %d", e.Sheet, e.Row)
	}
	if e.Key != "" {
		return fmt.Sprintf("[%s] %s, key %q, locale %s: %s",
			strings.ToUpper(e.Severity), location, e.Key, e.Locale, e.Message)
	}
	return fmt.Sprintf("[%s] %s, locale %s: %s", strings.ToUpper(e.Severity), location, e.Locale, e.Message)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result contains the outcome of a validation run.
type Result struct {
	// IsValid is true if there are no errors (and no warnings when
	// TreatWarningsAsErrors is set).
	IsValid bool

	// Issues contains every problem found, errors and warnings.
	Issues []*Issue

	// ErrorCount is the number of errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// EntriesChecked is the number of keys inspected.
	EntriesChecked int
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Options controls a validation run.
type Options struct {
	// TreatWarningsAsErrors makes warnings fail validation.
	TreatWarningsAsErrors bool

	// RequiredLocales must each have a column in every sheet.
	RequiredLocales []string
}

// Validator checks sheets against a set of Options.
type Validator struct {
	options Options
}

// NewValidator creates a new Validator instance.
func NewValidator(options Options) *Validator {
	return &Validator{options: options}
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate checks every sheet and returns a detailed result.
func (v *Validator) Validate(sheets []*sheetreader.Sheet) *Result {
	result := &Result{IsValid: true}

	for _, sheet := range sheets {
		for _, issue := range v.ValidateSheet(sheet) {
			result.Issues = append(result.Issues, issue)

			if issue.Severity == SeverityError {
				result.ErrorCount++
				result.IsValid = false
			} else {
				result.WarningCount++
				if v.options.TreatWarningsAsErrors {
					result.IsValid = false
				}
			}
		}
		result.EntriesChecked += len(sheet.Entries)
	}

	return result
}

// ValidateSheet checks a single sheet.
func (v *Validator) ValidateSheet(sheet *sheetreader.Sheet) []*Issue {
	var issues []*Issue

	present := make(map[string]bool, len(sheet.Locales))
	for _, l := range sheet.Locales {
		present[l] = true
	}
	for _, l := range v.options.RequiredLocales {
		if !present[l] {
			issues = append(issues, &Issue{
				Severity: SeverityError,
				Sheet:    sheet.Name,
				Locale:   l,
				Rule:     "required_locale",
				Message:  "no column for a required locale",
			})
		}
	}

	for _, entry := range sheet.Entries {
		issues = append(issues, validateEntry(sheet, entry)...)
	}

	return issues
}

// validateEntry checks the translations of a single key. The reference
// locale is the first locale of the sheet with a value.
func validateEntry(sheet *sheetreader.Sheet, entry sheetreader.Entry) []*Issue {
	var issues []*Issue

	newIssue := func(severity, l, rule, message string) *Issue {
		return &Issue{
			Severity: severity,
			Sheet:    sheet.Name,
			Row:      entry.Row,
			Key:      entry.Key,
			Locale:   l,
			Rule:     rule,
			Message:  message,
		}
	}

	var reference string
	var referencePlaceholders []string

	for _, l := range sheet.Locales {
		value, ok := entry.Values[l]
		if !ok {
			issues = append(issues, newIssue(SeverityWarning, l, "missing_translation", "missing translation"))
			continue
		}

		if strings.TrimSpace(value) != value {
			issues = append(issues, newIssue(SeverityWarning, l, "whitespace", "leading or trailing whitespace"))
		}

		placeholders := Placeholders(value)
		if reference == "" {
			reference = l
			referencePlaceholders = placeholders
			continue
		}
		if !equal(placeholders, referencePlaceholders) {
			issues = append(issues, newIssue(SeverityError, l, "placeholders", fmt.Sprintf(
				"placeholders %v do not match %v in %s", placeholders, referencePlaceholders, reference)))
		}
	}

	return issues
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Placeholders returns the distinct placeholders of a message, sorted.
func Placeholders(message string) []string {
	matches := placeholderPattern.FindAllString(message, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	var out []string
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FormatIssues formats validation issues for display.
func FormatIssues(issues []*Issue) string {
	if len(issues) == 0 {
		return "No validation issues."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d issue(s):\n", len(issues)))

	for i, issue := range issues {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue.Error()))
	}

	return builder.String()
}
