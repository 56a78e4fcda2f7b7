// =============================================================================
// Spreadsheet Translator - Translation Catalog
// =============================================================================
//
// A catalog holds the messages of one translation domain in one locale. It is
// the unit written to disk: one file per (domain, locale) pair, named
//
//   <domain>.<locale>.<extension>      e.g. demo_frontend.es_ES.yml
//
// =============================================================================

package catalog

import (
	"sort"
)

// DefaultDomain is used when a lookup does not name a domain.
const DefaultDomain = "messages"

// Catalog maps message keys to the translated text of one locale and domain.
type Catalog struct {
	// Locale is the catalog locale in underscore form (es_ES).
	Locale string

	// Domain is the translation domain (demo_frontend).
	Domain string

	// Messages maps keys (homepage.title) to translated text.
	Messages map[string]string
}

// New creates an empty catalog.
func New(locale, domain string) *Catalog {
	return &Catalog{
		Locale:   locale,
		Domain:   domain,
		Messages: make(map[string]string),
	}
}

// Set stores a message, replacing any previous value for the key.
func (c *Catalog) Set(key, value string) {
	c.Messages[key] = value
}

// Get returns the message for a key.
func (c *Catalog) Get(key string) (string, bool) {
	value, ok := c.Messages[key]
	return value, ok
}

// Len returns the number of messages.
func (c *Catalog) Len() int {
	return len(c.Messages)
}

// Keys returns the message keys in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.Messages))
	for key := range c.Messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Merge copies every message of other into c. Messages of other win.
func (c *Catalog) Merge(other *Catalog) {
	for key, value := range other.Messages {
		c.Messages[key] = value
	}
}
