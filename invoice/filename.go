package invoice

import (
	"strings"
	"unicode"
)

// Format is an export output format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
)

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatXLSX:
		return "xlsx"
	case FormatHTML:
		return "html"
	default:
		return "pdf"
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/pdf"
	}
}

// ExportFilename derives the download name for a document: the sanitized
// client name (literal "invoice" when empty) joined to the invoice number
// with the format extension appended.
func (d *Document) ExportFilename(format Format) string {
	name := sanitizeFilename(d.Client.Name)
	if name == "" {
		name = "invoice"
	}
	if number := strings.TrimSpace(d.Number); number != "" {
		name = name + "-" + number
	}
	return name + "." + format.Extension()
}

// sanitizeFilename lower-cases the input and collapses every run of
// non-alphanumeric characters into a single underscore.
func sanitizeFilename(raw string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
