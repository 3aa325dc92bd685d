// Package invoicepdf embeds a captured invoice bitmap into a single-page
// PDF sized to a standard page.
package invoicepdf

import (
	"bytes"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/oancholarevelo/invoice-builder/invoice"
)

// Composer builds single-page PDF documents from capture bitmaps.
type Composer struct {
	// PageSize is the output page ("A4" default).
	PageSize string
}

var pageSizeNames = map[string]string{
	"A3":     "A3",
	"A4":     "A4",
	"A5":     "A5",
	"LETTER": "Letter",
	"LEGAL":  "Legal",
}

// Compose embeds the JPEG image as the sole, full-bleed content of one
// page. Nothing is written on failure.
func (c Composer) Compose(image []byte) ([]byte, error) {
	if len(image) == 0 {
		return nil, invoice.NewError(invoice.KindValidation, "compose input is empty", nil)
	}

	pageSize := c.PageSize
	if pageSize == "" {
		pageSize = "A4"
	}
	name, ok := pageSizeNames[strings.ToUpper(pageSize)]
	if !ok {
		return nil, invoice.NewError(invoice.KindValidation, "unsupported page size: "+pageSize, nil)
	}

	pdf := gofpdf.New("P", "mm", name, "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	imgOpts := gofpdf.ImageOptions{ImageType: "JPEG"}
	pdf.RegisterImageOptionsReader("invoice", imgOpts, bytes.NewReader(image))
	width, height := pdf.GetPageSize()
	pdf.ImageOptions("invoice", 0, 0, width, height, false, imgOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, invoice.NewError(invoice.KindInternal, "pdf compose failed", err)
	}
	return buf.Bytes(), nil
}
