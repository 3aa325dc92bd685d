package invoicepdf

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/oancholarevelo/invoice-builder/invoice"
)

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestComposer_Compose(t *testing.T) {
	data, err := Composer{}.Compose(testJPEG(t))
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("expected pdf header, got %q", data[:min(len(data), 8)])
	}
}

func TestComposer_PageSizes(t *testing.T) {
	jpg := testJPEG(t)
	for _, size := range []string{"A4", "a4", "Letter", "LEGAL", "A3", "A5"} {
		if _, err := (Composer{PageSize: size}).Compose(jpg); err != nil {
			t.Fatalf("compose %s: %v", size, err)
		}
	}
}

func TestComposer_UnsupportedPageSize(t *testing.T) {
	_, err := Composer{PageSize: "Tabloid"}.Compose(testJPEG(t))
	if err == nil {
		t.Fatalf("expected error for unsupported page size")
	}
	if kind := invoice.KindFromError(err); kind != invoice.KindValidation {
		t.Fatalf("expected validation kind, got %s", kind)
	}
	if !strings.Contains(err.Error(), "Tabloid") {
		t.Fatalf("expected offending size in message, got %q", err.Error())
	}
}

func TestComposer_EmptyInput(t *testing.T) {
	if _, err := (Composer{}).Compose(nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
}
