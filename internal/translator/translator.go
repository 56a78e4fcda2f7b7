// Package translator looks up messages in the catalogs written by the
// converter.
//
// Catalogs are loaded lazily, the first time a (locale, domain) pair is
// needed, so a Translator can be created before the catalogs exist.
package translator

import (
	"errors"
	"strings"
	"sync"

	"github.com/ginjaninja78/spreadsheet-translator/internal/catalog"
	"github.com/ginjaninja78/spreadsheet-translator/internal/locale"
	"github.com/ginjaninja78/spreadsheet-translator/internal/logging"
)

// Translator resolves message keys against catalog files in a directory.
// It is safe for concurrent use.
type Translator struct {
	dir    string
	logger logging.Logger

	mu        sync.RWMutex
	locale    string
	fallbacks []string
	catalogs  map[string]*catalog.Catalog
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger sets the logger used to report unreadable catalogs.
func WithLogger(logger logging.Logger) Option {
	return func(t *Translator) {
		t.logger = logger
	}
}

// WithFallbackLocales sets the initial fallback locales.
func WithFallbackLocales(locales []string) Option {
	return func(t *Translator) {
		t.fallbacks = normalizeAll(locales)
	}
}

// New creates a Translator reading catalogs from dir.
func New(dir, defaultLocale string, opts ...Option) *Translator {
	t := &Translator{
		dir:      dir,
		logger:   logging.Discard(),
		locale:   locale.MustNormalize(defaultLocale),
		catalogs: make(map[string]*catalog.Catalog),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Locale returns the locale used for lookups.
func (t *Translator) Locale() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.locale
}

// SetLocale changes the locale used for lookups.
func (t *Translator) SetLocale(l string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.locale = locale.MustNormalize(l)
}

// FallbackLocales returns the current fallback locales.
func (t *Translator) FallbackLocales() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.fallbacks...)
}

// SetFallbackLocales replaces the locales tried when a key is missing in the
// current locale.
func (t *Translator) SetFallbackLocales(locales []string) {
	normalized := normalizeAll(locales)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.fallbacks = normalized
}

// Trans translates a key in the current locale.
//
// The lookup walks the current locale, its parents and the fallback locales.
// Each params key is replaced literally in the result, so
// Trans("hello", map[string]string{"%name%": "Ana"}, "") turns "Hello %name%"
// into "Hello Ana". An empty domain means "messages". A key found in no
// catalog is returned as-is, with parameters applied.
func (t *Translator) Trans(key string, params map[string]string, domain string) string {
	return t.TransIn(key, params, domain, t.Locale())
}

// TransIn translates a key in the given locale.
func (t *Translator) TransIn(key string, params map[string]string, domain, l string) string {
	if domain == "" {
		domain = catalog.DefaultDomain
	}

	message := key
	for _, candidate := range locale.Chain(l, t.FallbackLocales()) {
		if value, ok := t.catalog(candidate, domain).Get(key); ok {
			message = value
			break
		}
	}

	return substitute(message, params)
}

// catalog returns the cached catalog for a locale and domain, loading it on
// first use. A missing or unreadable catalog is cached as empty.
func (t *Translator) catalog(l, domain string) *catalog.Catalog {
	id := l + "/" + domain

	t.mu.RLock()
	c, ok := t.catalogs[id]
	t.mu.RUnlock()
	if ok {
		return c
	}

	loaded, err := catalog.Load(t.dir, domain, l)
	if err != nil {
		if !errors.Is(err, catalog.ErrCatalogNotFound) {
			t.logger.Warn("ignoring unreadable catalog", "locale", l, "domain", domain, "err", err)
		}
		loaded = catalog.New(l, domain)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.catalogs[id]; ok {
		return c
	}
	t.catalogs[id] = loaded
	return loaded
}

// Reset drops every cached catalog, so the next lookup reads the files again.
func (t *Translator) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.catalogs = make(map[string]*catalog.Catalog)
}

func substitute(message string, params map[string]string) string {
	if len(params) == 0 {
		return message
	}

	pairs := make([]string, 0, len(params)*2)
	for placeholder, value := range params {
		pairs = append(pairs, placeholder, value)
	}
	return strings.NewReplacer(pairs...).Replace(message)
}

func normalizeAll(locales []string) []string {
	out := make([]string, 0, len(locales))
	for _, l := range locales {
		out = append(out, locale.MustNormalize(l))
	}
	return out
}
