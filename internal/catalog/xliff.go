// =============================================================================
// Spreadsheet Translator - XLIFF Writer
// =============================================================================
//
// This file generates and reads XLIFF 1.2 catalogs.
//
// XML STRUCTURE:
//
//   <?xml version="1.0" encoding="utf-8"?>
//   <xliff xmlns="urn:oasis:names:tc:xliff:document:1.2" version="1.2">
//     <file source-language="es-ES" target-language="es-ES" datatype="plaintext" original="file.ext">
//       <body>
//         <trans-unit id="1" resname="homepage.title">   <!-- keys in sorted order -->
//           <source>homepage.title</source>
//           <target>Bienvenido</target>
//         </trans-unit>
//       </body>
//     </file>
//   </xliff>
//
// =============================================================================

package catalog

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

const xliffNamespace = "urn:oasis:names:tc:xliff:document:1.2"

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// xmlAttr is a single attribute, kept in insertion order.
type xmlAttr struct {
	Name  string
	Value string
}

// xmlElement represents a generic XML element.
type xmlElement struct {
	Name       string
	Attributes []xmlAttr
	Value      string
	Children   []xmlElement
}

// encodeXLIFF builds the XLIFF document for a catalog.
func encodeXLIFF(c *Catalog) []byte {
	body := xmlElement{Name: "body"}

	for i, key := range c.Keys() {
		body.Children = append(body.Children, xmlElement{
			Name: "trans-unit",
			Attributes: []xmlAttr{
				{Name: "id", Value: strconv.Itoa(i + 1)},
				{Name: "resname", Value: key},
			},
			Children: []xmlElement{
				{Name: "source", Value: key},
				{Name: "target", Value: c.Messages[key]},
			},
		})
	}

	// XLIFF carries BCP 47 tags (es-ES), catalogs use es_ES.
	language := strings.ReplaceAll(c.Locale, "_", "-")

	root := xmlElement{
		Name: "xliff",
		Attributes: []xmlAttr{
			{Name: "xmlns", Value: xliffNamespace},
			{Name: "version", Value: "1.2"},
		},
		Children: []xmlElement{{
			Name: "file",
			Attributes: []xmlAttr{
				{Name: "source-language", Value: language},
				{Name: "target-language", Value: language},
				{Name: "datatype", Value: "plaintext"},
				{Name: "original", Value: "file.ext"},
			},
			Children: []xmlElement{body},
		}},
	}

	var buffer bytes.Buffer
	buffer.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	writeElement(&buffer, root, "    ", 0)

	return buffer.Bytes()
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element xmlElement, indent string, level int) {
	writeIndent(buffer, indent, level)

	// Write opening tag.
	buffer.WriteString("<")
	buffer.WriteString(element.Name)

	for _, attr := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name, escapeXML(attr.Value)))
	}

	// Self-closing tag.
	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if len(element.Children) == 0 {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}
		writeIndent(buffer, indent, level)
	}

	// Write closing tag.
	buffer.WriteString("</")
	buffer.WriteString(element.Name)
	buffer.WriteString(">\n")
}

func writeIndent(buffer *bytes.Buffer, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}
}

// escapeXML escapes special characters for XML.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

// =============================================================================
// XLIFF READING
// =============================================================================

type xliffDocument struct {
	XMLName xml.Name    `xml:"xliff"`
	Files   []xliffFile `xml:"file"`
}

type xliffFile struct {
	TargetLanguage string      `xml:"target-language,attr"`
	Units          []xliffUnit `xml:"body>trans-unit"`
}

type xliffUnit struct {
	ID      string `xml:"id,attr"`
	ResName string `xml:"resname,attr"`
	Source  string `xml:"source"`
	Target  string `xml:"target"`
}

// decodeXLIFF reads the trans-units of an XLIFF 1.2 document into c.
// The key is the resname attribute, falling back to the source text.
func decodeXLIFF(data []byte, c *Catalog) error {
	var doc xliffDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode XLIFF catalog: %w", err)
	}

	for _, file := range doc.Files {
		for _, unit := range file.Units {
			key := unit.ResName
			if key == "" {
				key = unit.Source
			}
			if key == "" {
				continue
			}
			c.Set(key, unit.Target)
		}
	}

	return nil
}
