// =============================================================================
// Spreadsheet Translator - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the configuration
// file. The configuration describes where catalogs are written, how the
// translator resolves locales, and the list of books (spreadsheet files) that
// can be converted.
//
// CONFIGURATION FILE (translator.yaml):
//
//   output_dir: ./translations
//   archive_dir: ./translations/.archive
//   log_level: info
//   max_concurrency: 4
//   translator:
//     default_locale: en
//     fallback_locales: [en]
//   books:
//     - name: frontend
//       source: ./data/frontend.xlsx
//       domain: demo_frontend
//       format: yml
//       key_columns: 2
//
// Relative paths are resolved against the directory of the configuration file.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/spreadsheet-translator/internal/catalog"
	"github.com/ginjaninja78/spreadsheet-translator/internal/locale"
	"github.com/ginjaninja78/spreadsheet-translator/internal/logging"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// OutputDir is the directory where translation catalogs are written.
	// The translator reads catalogs back from the same directory.
	// Default: "./translations"
	OutputDir string `yaml:"output_dir"`

	// ArchiveDir is the directory where previous catalog files are copied
	// before being overwritten. Empty disables backups.
	ArchiveDir string `yaml:"archive_dir"`

	// UseTimestampSubdirs stores backups under archive_dir/YYYY/MM/DD.
	UseTimestampSubdirs bool `yaml:"use_timestamp_subdirs"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of books processed concurrently
	// when every book is converted. Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// StopOnError cancels the remaining books as soon as one book fails.
	// Default: false
	StopOnError bool `yaml:"stop_on_error"`

	// Translator configures the translation lookup service.
	Translator TranslatorConfig `yaml:"translator"`

	// Books lists the spreadsheet files that can be converted.
	Books []BookConfig `yaml:"books"`

	// baseDir is the directory of the loaded configuration file.
	baseDir string
}

// TranslatorConfig holds the settings of the translation lookup service.
type TranslatorConfig struct {
	// DefaultLocale is the locale used for lookups.
	// Default: "en"
	DefaultLocale string `yaml:"default_locale"`

	// FallbackLocales are tried, in order, when a key is missing in the
	// default locale.
	FallbackLocales []string `yaml:"fallback_locales"`
}

// =============================================================================
// BOOK CONFIGURATION STRUCTURE
// =============================================================================

// BookConfig describes a single book: one spreadsheet file that maps to one
// translation domain. Each worksheet of the file is a sheet of the book.
type BookConfig struct {
	// Name identifies the book on the command line (--book-name).
	Name string `yaml:"name"`

	// Source is the path to the spreadsheet file (.xlsx, .xlsm or .csv).
	Source string `yaml:"source"`

	// Domain is the translation domain of the generated catalogs.
	// Default: the book name.
	Domain string `yaml:"domain"`

	// Format is the catalog file format: "yml", "json" or "xlf".
	// Default: "yml"
	Format string `yaml:"format"`

	// KeyColumns is the number of leading columns that make up the key.
	// Default: 1
	KeyColumns int `yaml:"key_columns"`

	// HeaderRow is the 1-based row holding the column titles.
	// Default: 1
	HeaderRow int `yaml:"header_row"`

	// KeySeparator joins the key columns.
	// Default: "."
	KeySeparator string `yaml:"key_separator"`

	// Locales restricts the generated catalogs to these locales.
	// Empty means every locale column of the sheet.
	Locales []string `yaml:"locales,omitempty"`

	// Delimiter is the field separator for CSV sources.
	// Default: ","
	Delimiter string `yaml:"delimiter,omitempty"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the Config struct with defaults applied.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data, filepath.Dir(configPath))
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse parses configuration data. Relative paths are resolved against
// baseDir.
func Parse(data []byte, baseDir string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.baseDir = baseDir
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./translations"
	}
	cfg.OutputDir = cfg.resolve(cfg.OutputDir)
	if cfg.ArchiveDir != "" {
		cfg.ArchiveDir = cfg.resolve(cfg.ArchiveDir)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.Translator.DefaultLocale == "" {
		cfg.Translator.DefaultLocale = "en"
	}

	for i := range cfg.Books {
		book := &cfg.Books[i]
		if book.Domain == "" {
			book.Domain = book.Name
		}
		if book.Format == "" {
			book.Format = string(catalog.FormatYAML)
		}
		if book.KeyColumns == 0 {
			book.KeyColumns = 1
		}
		if book.HeaderRow == 0 {
			book.HeaderRow = 1
		}
		if book.KeySeparator == "" {
			book.KeySeparator = "."
		}
		if book.Delimiter == "" {
			book.Delimiter = ","
		}
		if book.Source != "" {
			book.Source = cfg.resolve(book.Source)
		}
	}
}

// resolve makes a relative path relative to the configuration directory.
func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) || c.baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(c.baseDir, path)
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for consistency. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.MaxConcurrency < 0 {
		errs = append(errs, fmt.Errorf("max_concurrency must be positive, got %d", c.MaxConcurrency))
	}
	if _, err := locale.Normalize(c.Translator.DefaultLocale); err != nil {
		errs = append(errs, fmt.Errorf("translator.default_locale: %w", err))
	}
	for _, l := range c.Translator.FallbackLocales {
		if _, err := locale.Normalize(l); err != nil {
			errs = append(errs, fmt.Errorf("translator.fallback_locales: %w", err))
		}
	}

	names := make(map[string]bool)
	domains := make(map[string]string)

	for i, book := range c.Books {
		label := fmt.Sprintf("books[%d]", i)
		if book.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", label))
		} else {
			label = fmt.Sprintf("book %q", book.Name)
			if names[book.Name] {
				errs = append(errs, fmt.Errorf("%s: duplicate book name", label))
			}
			names[book.Name] = true
		}

		// Two books writing the same domain would race on the same files.
		if other, ok := domains[book.Domain]; ok && book.Domain != "" {
			errs = append(errs, fmt.Errorf("%s: domain %q already used by book %q", label, book.Domain, other))
		} else {
			domains[book.Domain] = book.Name
		}

		if book.Source == "" {
			errs = append(errs, fmt.Errorf("%s: source is required", label))
		}
		if _, err := catalog.ParseFormat(book.Format); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", label, err))
		}
		if book.KeyColumns < 1 {
			errs = append(errs, fmt.Errorf("%s: key_columns must be at least 1", label))
		}
		if book.HeaderRow < 1 {
			errs = append(errs, fmt.Errorf("%s: header_row must be at least 1", label))
		}
		if len([]rune(book.Delimiter)) != 1 {
			errs = append(errs, fmt.Errorf("%s: delimiter must be a single character", label))
		}
		for _, l := range book.Locales {
			if _, err := locale.Normalize(l); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", label, err))
			}
		}
	}

	return errors.Join(errs...)
}

// =============================================================================
// LOOKUP HELPERS
// =============================================================================

// Book returns the configuration of the named book.
func (c *Config) Book(name string) (*BookConfig, bool) {
	for i := range c.Books {
		if c.Books[i].Name == name {
			return &c.Books[i], true
		}
	}
	return nil, false
}

// BookNames returns the configured book names in declaration order.
func (c *Config) BookNames() []string {
	names := make([]string, 0, len(c.Books))
	for _, book := range c.Books {
		names = append(names, book.Name)
	}
	return names
}

// CatalogFormat returns the parsed catalog format of the book.
// The format has been validated on load.
func (b *BookConfig) CatalogFormat() catalog.Format {
	f, _ := catalog.ParseFormat(b.Format)
	return f
}

// LocaleFilter returns the normalized locale filter of the book, or nil when
// every locale is accepted.
func (b *BookConfig) LocaleFilter() map[string]bool {
	if len(b.Locales) == 0 {
		return nil
	}
	filter := make(map[string]bool, len(b.Locales))
	for _, l := range b.Locales {
		filter[locale.MustNormalize(strings.TrimSpace(l))] = true
	}
	return filter
}
