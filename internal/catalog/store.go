package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCatalogNotFound is returned by Load when no catalog file exists for the
// requested domain and locale.
var ErrCatalogNotFound = errors.New("catalog not found")

// Write encodes the catalog and writes it to dir. The file is written to a
// temporary name first and renamed, so readers never see a partial catalog.
//
// RETURNS:
//   - The path of the written file.
//   - An error if encoding or writing fails.
func Write(dir string, c *Catalog, f Format) (string, error) {
	data, err := Encode(c, f)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create catalog directory: %w", err)
	}

	path := filepath.Join(dir, FileName(c.Domain, c.Locale, f))
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write catalog: %w", err)
	}

	return path, nil
}

// Load reads the catalog of a domain and locale from dir. Formats are checked
// in Formats order and the first existing file is used; files in other
// formats are ignored.
func Load(dir, domain, locale string) (*Catalog, error) {
	for _, f := range Formats {
		c, err := LoadFormat(dir, domain, locale, f)
		if errors.Is(err, ErrCatalogNotFound) {
			continue
		}
		return c, err
	}

	return nil, fmt.Errorf("%w: domain %q, locale %q in %s", ErrCatalogNotFound, domain, locale, dir)
}

// LoadFormat reads the catalog of a domain and locale stored in format f.
func LoadFormat(dir, domain, locale string, f Format) (*Catalog, error) {
	path := filepath.Join(dir, FileName(domain, locale, f))
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	c, err := Decode(data, f, locale, domain)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Stale returns the existing catalog files of a domain and locale in any
// format other than keep.
func Stale(dir, domain, locale string, keep Format) []string {
	var paths []string
	for _, f := range Formats {
		if f == keep {
			continue
		}
		path := filepath.Join(dir, FileName(domain, locale, f))
		if _, err := os.Stat(path); err == nil {
			paths = append(paths, path)
		}
	}
	return paths
}
