// Package invoicetmpl renders an invoice document to standalone HTML. The
// projection is read-only: the document is never mutated, and the produced
// page carries no external asset references so it can be captured with
// network access blocked.
package invoicetmpl

import (
	"bytes"
	"context"
	"embed"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/oancholarevelo/invoice-builder/invoice"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// DefaultTemplateName is the embedded invoice document template.
const DefaultTemplateName = "invoice.html"

// Options adjust a single render.
type Options struct {
	// LogoSrc is the resolved image source for the sender logo, usually a
	// data URI. Empty means no logo block is rendered.
	LogoSrc string
	// Now overrides the timestamp used for the copyright footer.
	Now time.Time
}

// Renderer renders invoice documents through pongo2 templates.
type Renderer struct {
	TemplateName string

	initOnce sync.Once
	set      *pongo2.TemplateSet
	tmpl     *pongo2.Template
	initErr  error
}

// New creates a renderer over the embedded templates.
func New() *Renderer {
	return &Renderer{TemplateName: DefaultTemplateName}
}

// Render produces the invoice HTML for the document.
func (r *Renderer) Render(ctx context.Context, doc *invoice.Document, opts Options) ([]byte, error) {
	if r == nil {
		return nil, invoice.NewError(invoice.KindInternal, "renderer is nil", nil)
	}
	if doc == nil {
		return nil, invoice.NewError(invoice.KindValidation, "document is required", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureTemplate(); err != nil {
		return nil, invoice.NewError(invoice.KindInternal, "invoice template load failed", err)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteWriter(buildContext(doc, opts.LogoSrc, now), &buf); err != nil {
		return nil, invoice.NewError(invoice.KindInternal, "invoice template execute failed", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) ensureTemplate() error {
	r.initOnce.Do(func() {
		name := r.TemplateName
		if name == "" {
			name = DefaultTemplateName
		}
		r.set = pongo2.NewSet("invoice", pongo2.NewFSLoader(embeddedTemplates))
		r.tmpl, r.initErr = r.set.FromFile("templates/" + name)
	})
	return r.initErr
}

type itemView struct {
	Description string
	Quantity    string
	Rate        string
	Amount      string
}

func buildContext(doc *invoice.Document, logoSrc string, now time.Time) pongo2.Context {
	currency := doc.Currency

	items := make([]itemView, 0, len(doc.Items))
	for _, item := range doc.Items {
		items = append(items, itemView{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			Rate:        currency.FormatAmount(item.Rate),
			Amount:      currency.FormatAmount(item.Amount()),
		})
	}

	return pongo2.Context{
		"sender":          doc.Sender,
		"client":          doc.Client,
		"number":          doc.Number,
		"issue_date":      doc.IssueDate,
		"due_date":        doc.DueDate,
		"items":           items,
		"notes":           doc.Notes,
		"payment_details": doc.PaymentDetails,
		"paid":            doc.Paid,
		"subtotal":        currency.FormatAmount(doc.Subtotal),
		"total":           currency.FormatAmount(doc.Total),
		"logo_src":        logoSrc,
		"year":            now.Year(),
	}
}
