package web

import (
	"embed"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/gofiber/fiber/v2"

	"github.com/oancholarevelo/invoice-builder/invoice"
)

//go:embed templates/*.html
var embeddedPages embed.FS

var (
	pageSetOnce sync.Once
	pageSet     *pongo2.TemplateSet
)

func pages() *pongo2.TemplateSet {
	pageSetOnce.Do(func() {
		pageSet = pongo2.NewSet("pages", pongo2.NewFSLoader(embeddedPages))
	})
	return pageSet
}

func (a *App) renderPage(c *fiber.Ctx, name string, data map[string]any) error {
	tmpl, err := pages().FromCache("templates/" + name)
	if err != nil {
		a.Logger.Errorf("page template load failed: name=%s err=%v", name, err)
		return c.Status(fiber.StatusInternalServerError).SendString("template error")
	}

	out, err := tmpl.Execute(pongo2.Context(data))
	if err != nil {
		a.Logger.Errorf("page template execute failed: name=%s err=%v", name, err)
		return c.Status(fiber.StatusInternalServerError).SendString("template error")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(out)
}

// renderError renders an HTML error page keyed to the error kind. Unknown
// profiles end up here as a dedicated not-found page.
func (a *App) renderError(c *fiber.Ctx, err error) error {
	status := statusFromKind(invoice.KindFromError(err))
	if status >= fiber.StatusInternalServerError {
		a.Logger.Errorf("page error: %v", err)
	}
	c.Status(status)
	return a.renderPage(c, "error.html", map[string]any{
		"status":  status,
		"message": invoice.AsGoError(err).Message,
	})
}
