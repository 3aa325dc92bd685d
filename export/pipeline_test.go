package export

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oancholarevelo/invoice-builder/adapters/capture"
	invoicetmpl "github.com/oancholarevelo/invoice-builder/adapters/template"
	"github.com/oancholarevelo/invoice-builder/invoice"
)

type fakeRenderer struct {
	html []byte
	err  error
	opts invoicetmpl.Options
}

func (f *fakeRenderer) Render(ctx context.Context, doc *invoice.Document, opts invoicetmpl.Options) ([]byte, error) {
	f.opts = opts
	return f.html, f.err
}

type fakeEngine struct {
	image       []byte
	err         error
	block       chan struct{}
	started     chan struct{}
	startedOnce sync.Once
	gotHTML     []byte
}

func (f *fakeEngine) Capture(ctx context.Context, html []byte, opts capture.Options) ([]byte, error) {
	f.gotHTML = html
	if f.started != nil {
		f.startedOnce.Do(func() { close(f.started) })
	}
	if f.block != nil {
		<-f.block
	}
	return f.image, f.err
}

type fakeComposer struct {
	pdf []byte
	err error
}

func (f *fakeComposer) Compose(image []byte) ([]byte, error) {
	return f.pdf, f.err
}

func testDocument() *invoice.Document {
	doc := invoice.New(invoice.Profile{Name: "Oliver Revelo"}, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	doc.Client.Name = "Acme Corp"
	return doc
}

func testPipeline() (*Pipeline, *fakeRenderer, *fakeEngine, *fakeComposer) {
	renderer := &fakeRenderer{html: []byte("<html>invoice</html>")}
	engine := &fakeEngine{image: []byte("jpeg-bytes")}
	composer := &fakeComposer{pdf: []byte("%PDF-1.4 fake")}
	p := &Pipeline{
		Renderer:    renderer,
		Capture:     engine,
		Composer:    composer,
		Now:         func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		IDGenerator: func() string { return "fixed-id" },
	}
	return p, renderer, engine, composer
}

func TestPipeline_ExportPDF(t *testing.T) {
	p, _, engine, _ := testPipeline()
	doc := testDocument()

	artifact, err := p.Export(context.Background(), doc, Options{Format: invoice.FormatPDF, LogoSrc: "data:image/png;base64,x"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if artifact.ID != "fixed-id" {
		t.Fatalf("expected injected id, got %q", artifact.ID)
	}
	if artifact.Filename != "acme_corp-2025-001.pdf" {
		t.Fatalf("unexpected filename %q", artifact.Filename)
	}
	if artifact.ContentType != "application/pdf" {
		t.Fatalf("unexpected content type %q", artifact.ContentType)
	}
	if string(artifact.Data) != "%PDF-1.4 fake" {
		t.Fatalf("expected composed pdf bytes, got %q", artifact.Data)
	}
	if string(engine.gotHTML) != "<html>invoice</html>" {
		t.Fatalf("engine did not receive rendered html")
	}
}

func TestPipeline_ExportDefaultsToPDF(t *testing.T) {
	p, _, _, _ := testPipeline()

	artifact, err := p.Export(context.Background(), testDocument(), Options{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasSuffix(artifact.Filename, ".pdf") {
		t.Fatalf("expected pdf default, got %q", artifact.Filename)
	}
}

func TestPipeline_ExportPassesLogoToRenderer(t *testing.T) {
	p, renderer, _, _ := testPipeline()

	_, err := p.Export(context.Background(), testDocument(), Options{LogoSrc: "asset-uri"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if renderer.opts.LogoSrc != "asset-uri" {
		t.Fatalf("expected logo src forwarded, got %q", renderer.opts.LogoSrc)
	}
	if renderer.opts.Now.IsZero() {
		t.Fatalf("expected render timestamp forwarded")
	}
}

func TestPipeline_CaptureFailureProducesNoArtifact(t *testing.T) {
	p, _, engine, _ := testPipeline()
	engine.err = errors.New("browser crashed")

	artifact, err := p.Export(context.Background(), testDocument(), Options{})
	if err == nil {
		t.Fatalf("expected capture failure to surface")
	}
	if len(artifact.Data) != 0 || artifact.ID != "" {
		t.Fatalf("expected empty artifact on failure, got %+v", artifact)
	}

	// the slot must be free again after a failure
	if _, err := p.Export(context.Background(), testDocument(), Options{Format: invoice.FormatXLSX}); err != nil {
		t.Fatalf("expected pipeline usable after failure, got %v", err)
	}
}

func TestPipeline_SecondExportConflictsWhileInFlight(t *testing.T) {
	p, _, engine, _ := testPipeline()
	engine.block = make(chan struct{})
	engine.started = make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	firstDone := make(chan error, 1)
	go func() {
		defer wg.Done()
		_, err := p.Export(context.Background(), testDocument(), Options{})
		firstDone <- err
	}()

	select {
	case <-engine.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("first export never reached the capture engine")
	}

	_, err := p.Export(context.Background(), testDocument(), Options{})
	if !errors.Is(err, ErrExportInFlight) {
		t.Fatalf("expected in-flight conflict, got %v", err)
	}
	if kind := invoice.KindFromError(err); kind != invoice.KindConflict {
		t.Fatalf("expected conflict kind, got %s", kind)
	}

	close(engine.block)
	wg.Wait()
	if err := <-firstDone; err != nil {
		t.Fatalf("first export failed: %v", err)
	}

	if _, err := p.Export(context.Background(), testDocument(), Options{}); err != nil {
		t.Fatalf("expected slot released after completion, got %v", err)
	}
}

func TestPipeline_UnsupportedFormat(t *testing.T) {
	p, _, _, _ := testPipeline()

	_, err := p.Export(context.Background(), testDocument(), Options{Format: invoice.Format("docx")})
	if err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if kind := invoice.KindFromError(err); kind != invoice.KindValidation {
		t.Fatalf("expected validation kind, got %s", kind)
	}
}

func TestPipeline_NilDocument(t *testing.T) {
	p, _, _, _ := testPipeline()

	_, err := p.Export(context.Background(), nil, Options{})
	if err == nil {
		t.Fatalf("expected error for nil document")
	}
	if kind := invoice.KindFromError(err); kind != invoice.KindValidation {
		t.Fatalf("expected validation kind, got %s", kind)
	}
}
