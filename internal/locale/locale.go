// Package locale normalizes locale identifiers and computes lookup chains.
//
// Catalog files and spreadsheet headers use the underscore form (es_ES).
// Parsing and canonicalization are delegated to golang.org/x/text/language so
// that "es-es", "ES_es" and "es_ES" all resolve to the same identifier.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrInvalidLocale is returned for identifiers that are not BCP 47 tags.
var ErrInvalidLocale = errors.New("invalid locale")

// Normalize returns the canonical underscore form of a locale identifier.
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty identifier", ErrInvalidLocale)
	}

	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidLocale, s, err)
	}
	if tag == language.Und {
		return "", fmt.Errorf("%w %q: undetermined language", ErrInvalidLocale, s)
	}

	return strings.ReplaceAll(tag.String(), "-", "_"), nil
}

// MustNormalize is like Normalize but returns the input unchanged on error.
func MustNormalize(s string) string {
	n, err := Normalize(s)
	if err != nil {
		return s
	}
	return n
}

// Parents returns the less specific locales of l, most specific first.
// Parents("sr_Latn_RS") = ["sr_Latn", "sr"].
func Parents(l string) []string {
	var parents []string
	for {
		i := strings.LastIndex(l, "_")
		if i <= 0 {
			return parents
		}
		l = l[:i]
		parents = append(parents, l)
	}
}

// Chain builds the lookup order for a locale: the locale itself, its parents,
// then every fallback followed by its parents. Duplicates are dropped.
func Chain(l string, fallbacks []string) []string {
	seen := make(map[string]bool)
	var chain []string

	add := func(candidate string) {
		if candidate == "" || seen[candidate] {
			return
		}
		seen[candidate] = true
		chain = append(chain, candidate)
	}

	for _, start := range append([]string{l}, fallbacks...) {
		start = MustNormalize(start)
		add(start)
		for _, p := range Parents(start) {
			add(p)
		}
	}

	return chain
}
