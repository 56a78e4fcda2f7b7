package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CATALOG FORMATS
// =============================================================================

// Format is a catalog file format. The value doubles as the file extension.
type Format string

const (
	// FormatYAML writes flat YAML maps (key: value).
	FormatYAML Format = "yml"

	// FormatJSON writes flat JSON objects.
	FormatJSON Format = "json"

	// FormatXLIFF writes XLIFF 1.2 documents.
	FormatXLIFF Format = "xlf"
)

// Formats lists every supported format, in the order Load checks them.
var Formats = []Format{FormatYAML, FormatJSON, FormatXLIFF}

// ParseFormat converts a configuration value to a Format.
// Common aliases are accepted ("yaml", "xliff").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yml", "yaml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "xlf", "xliff":
		return FormatXLIFF, nil
	default:
		return "", fmt.Errorf("unsupported catalog format %q (use yml, json or xlf)", s)
	}
}

// FileName returns the catalog file name for a domain and locale.
func FileName(domain, locale string, f Format) string {
	return fmt.Sprintf("%s.%s.%s", domain, locale, f)
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode serializes a catalog in the given format.
func Encode(c *Catalog, f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(4)
		// yaml.v3 sorts map keys, which keeps the output stable.
		if err := enc.Encode(c.Messages); err != nil {
			return nil, fmt.Errorf("failed to encode YAML catalog: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML catalog: %w", err)
		}
		return buf.Bytes(), nil

	case FormatJSON:
		data, err := json.MarshalIndent(c.Messages, "", "    ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON catalog: %w", err)
		}
		return append(data, '\n'), nil

	case FormatXLIFF:
		return encodeXLIFF(c), nil

	default:
		return nil, fmt.Errorf("unsupported catalog format %q", f)
	}
}

// =============================================================================
// DECODING
// =============================================================================

// Decode parses catalog data. Nested YAML and JSON maps are flattened with
// "." so that
//
//   homepage:
//     title: Welcome
//
// yields the key "homepage.title".
func Decode(data []byte, f Format, locale, domain string) (*Catalog, error) {
	c := New(locale, domain)

	switch f {
	case FormatYAML:
		var tree map[string]interface{}
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to decode YAML catalog: %w", err)
		}
		flatten("", tree, c.Messages)

	case FormatJSON:
		var tree map[string]interface{}
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("failed to decode JSON catalog: %w", err)
		}
		flatten("", tree, c.Messages)

	case FormatXLIFF:
		if err := decodeXLIFF(data, c); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unsupported catalog format %q", f)
	}

	return c, nil
}

// flatten walks a decoded tree and stores leaf values under dotted keys.
func flatten(prefix string, tree map[string]interface{}, out map[string]string) {
	for key, value := range tree {
		if prefix != "" {
			key = prefix + "." + key
		}

		switch v := value.(type) {
		case map[string]interface{}:
			flatten(key, v, out)
		case nil:
			out[key] = ""
		case string:
			out[key] = v
		default:
			out[key] = fmt.Sprint(v)
		}
	}
}
