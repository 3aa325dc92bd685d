// Package export turns an invoice document into a downloadable artifact:
// a single-page PDF embedding a raster capture of the rendered document,
// or an XLSX workbook of the line-item table.
package export

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/oancholarevelo/invoice-builder/adapters/capture"
	invoicetmpl "github.com/oancholarevelo/invoice-builder/adapters/template"
	"github.com/oancholarevelo/invoice-builder/invoice"
)

// HTMLRenderer projects a document to standalone HTML.
type HTMLRenderer interface {
	Render(ctx context.Context, doc *invoice.Document, opts invoicetmpl.Options) ([]byte, error)
}

// ImageEngine captures HTML as a page-sized bitmap.
type ImageEngine interface {
	Capture(ctx context.Context, html []byte, opts capture.Options) ([]byte, error)
}

// PageComposer embeds a bitmap into a single-page document file.
type PageComposer interface {
	Compose(image []byte) ([]byte, error)
}

// Options adjust a single export.
type Options struct {
	Format invoice.Format
	// LogoSrc is the resolved sender logo source passed to the renderer.
	LogoSrc string
	// Capture overrides the engine defaults for this export.
	Capture capture.Options
}

// Artifact is a produced export file.
type Artifact struct {
	ID          string
	Filename    string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// Pipeline orchestrates render, capture and composition. At most one
// export runs at a time; a second request while one is in flight fails
// fast with a conflict error rather than running concurrently.
type Pipeline struct {
	Renderer HTMLRenderer
	Capture  ImageEngine
	Composer PageComposer
	Logger   invoice.Logger

	Now         func() time.Time
	IDGenerator func() string

	inFlight atomic.Bool
}

// ErrExportInFlight is returned when an export is already running.
var ErrExportInFlight = invoice.NewError(invoice.KindConflict, "an export is already in flight", nil)

// Export produces an artifact for the document. On any failure no partial
// artifact is produced and the in-flight slot is released.
func (p *Pipeline) Export(ctx context.Context, doc *invoice.Document, opts Options) (Artifact, error) {
	if p == nil {
		return Artifact{}, invoice.NewError(invoice.KindInternal, "pipeline is nil", nil)
	}
	if doc == nil {
		return Artifact{}, invoice.NewError(invoice.KindValidation, "document is required", nil)
	}

	if !p.inFlight.CompareAndSwap(false, true) {
		return Artifact{}, ErrExportInFlight
	}
	defer p.inFlight.Store(false)

	format := opts.Format
	if format == "" {
		format = invoice.FormatPDF
	}

	started := p.now()
	p.logger().Debugf("export started: format=%s client=%q number=%q", format, doc.Client.Name, doc.Number)

	var data []byte
	var err error
	switch format {
	case invoice.FormatPDF:
		data, err = p.exportPDF(ctx, doc, opts)
	case invoice.FormatXLSX:
		data, err = renderXLSX(ctx, doc)
	case invoice.FormatHTML:
		data, err = p.renderHTML(ctx, doc, opts)
	default:
		err = invoice.NewError(invoice.KindValidation, "unsupported export format: "+string(format), nil)
	}
	if err != nil {
		p.logger().Errorf("export failed: format=%s err=%v", format, err)
		return Artifact{}, err
	}

	artifact := Artifact{
		ID:          p.nextID(),
		Filename:    doc.ExportFilename(format),
		ContentType: format.ContentType(),
		Data:        data,
		CreatedAt:   started,
	}
	p.logger().Infof("export complete: id=%s file=%s bytes=%d elapsed=%s",
		artifact.ID, artifact.Filename, len(artifact.Data), p.now().Sub(started))
	return artifact, nil
}

func (p *Pipeline) exportPDF(ctx context.Context, doc *invoice.Document, opts Options) ([]byte, error) {
	if p.Renderer == nil || p.Capture == nil || p.Composer == nil {
		return nil, invoice.NewError(invoice.KindInternal, "pipeline is not fully configured", nil)
	}

	html, err := p.renderHTML(ctx, doc, opts)
	if err != nil {
		return nil, err
	}

	image, err := p.Capture.Capture(ctx, html, opts.Capture)
	if err != nil {
		return nil, err
	}

	return p.Composer.Compose(image)
}

func (p *Pipeline) renderHTML(ctx context.Context, doc *invoice.Document, opts Options) ([]byte, error) {
	if p.Renderer == nil {
		return nil, invoice.NewError(invoice.KindInternal, "pipeline renderer is not configured", nil)
	}
	return p.Renderer.Render(ctx, doc, invoicetmpl.Options{LogoSrc: opts.LogoSrc, Now: p.now()})
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Pipeline) nextID() string {
	if p.IDGenerator == nil {
		return uuid.NewString()
	}
	return p.IDGenerator()
}

func (p *Pipeline) logger() invoice.Logger {
	if p.Logger == nil {
		return invoice.NopLogger{}
	}
	return p.Logger
}
