package web

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/oancholarevelo/invoice-builder/adapters/capture"
	invoicetmpl "github.com/oancholarevelo/invoice-builder/adapters/template"
	"github.com/oancholarevelo/invoice-builder/assets"
	"github.com/oancholarevelo/invoice-builder/export"
	"github.com/oancholarevelo/invoice-builder/invoice"
	"github.com/oancholarevelo/invoice-builder/profile"
)

// HomePage lists the available sender profiles plus the custom entry.
func (a *App) HomePage(c *fiber.Ctx) error {
	profiles, err := a.Profiles.List(c.UserContext())
	if err != nil {
		return a.renderError(c, err)
	}

	keys := make([]string, 0, len(profiles))
	for key := range profiles {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	type entry struct {
		Key  string
		Name string
	}
	entries := make([]entry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, entry{Key: key, Name: profiles[key].Name})
	}

	return a.renderPage(c, "home.html", map[string]any{
		"profiles":   entries,
		"custom_key": profile.CustomKey,
	})
}

// EditorPage starts an editing session seeded from the profile in the URL
// and renders the invoice editor. An unknown profile key is a terminal
// not-found page.
func (a *App) EditorPage(c *fiber.Ctx) error {
	key := c.Params("profile")

	sender, err := a.Profiles.Get(c.UserContext(), key)
	if err != nil {
		return a.renderError(c, err)
	}

	doc := invoice.New(sender, time.Now())
	session := a.Sessions.Create(doc, key)

	return a.renderPage(c, "editor.html", map[string]any{
		"session_id":  session.ID,
		"profile_key": key,
		"is_custom":   key == profile.CustomKey,
		"document":    session.Document(),
	})
}

// GetSession returns the current document for a session.
func (a *App) GetSession(c *fiber.Ctx) error {
	session, err := a.session(c)
	if err != nil {
		return writeError(c, err)
	}
	return writeDocument(c, session.ID, session.Document())
}

type fieldRequest struct {
	// Scope routes the field: "sender", "client" or empty for a scalar
	// document field.
	Scope string `json:"scope"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// UpdateField routes one raw field change to the document. This is the
// form controller: routing by name plus basic coercion only.
func (a *App) UpdateField(c *fiber.Ctx) error {
	session, err := a.session(c)
	if err != nil {
		return writeError(c, err)
	}

	var req fieldRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, invoice.NewError(invoice.KindValidation, "invalid request body", err))
	}

	doc, err := session.Update(func(doc *invoice.Document) error {
		switch req.Scope {
		case "sender":
			return doc.SetSenderField(req.Name, req.Value)
		case "client":
			return doc.SetClientField(req.Name, req.Value)
		case "":
			return doc.SetField(req.Name, req.Value)
		default:
			return invoice.NewError(invoice.KindValidation, fmt.Sprintf("unknown field scope %q", req.Scope), nil)
		}
	})
	if err != nil {
		return writeError(c, err)
	}
	return writeDocument(c, session.ID, doc)
}

// AddItem appends a default line item.
func (a *App) AddItem(c *fiber.Ctx) error {
	session, err := a.session(c)
	if err != nil {
		return writeError(c, err)
	}
	doc, err := session.Update(func(doc *invoice.Document) error {
		doc.AddItem()
		return nil
	})
	if err != nil {
		return writeError(c, err)
	}
	return writeDocument(c, session.ID, doc)
}

type itemRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UpdateItem edits one field of the line item at the index in the URL.
func (a *App) UpdateItem(c *fiber.Ctx) error {
	session, err := a.session(c)
	if err != nil {
		return writeError(c, err)
	}
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return writeError(c, invoice.NewError(invoice.KindValidation, "invalid item index", err))
	}

	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, invoice.NewError(invoice.KindValidation, "invalid request body", err))
	}

	doc, err := session.Update(func(doc *invoice.Document) error {
		return doc.SetItem(index, req.Field, req.Value)
	})
	if err != nil {
		return writeError(c, err)
	}
	return writeDocument(c, session.ID, doc)
}

// RemoveItem deletes the line item at the index in the URL.
func (a *App) RemoveItem(c *fiber.Ctx) error {
	session, err := a.session(c)
	if err != nil {
		return writeError(c, err)
	}
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return writeError(c, invoice.NewError(invoice.KindValidation, "invalid item index", err))
	}

	doc, err := session.Update(func(doc *invoice.Document) error {
		return doc.RemoveItem(index)
	})
	if err != nil {
		return writeError(c, err)
	}
	return writeDocument(c, session.ID, doc)
}

// UploadLogo stores the uploaded logo image for the session, releasing the
// previously uploaded one.
func (a *App) UploadLogo(c *fiber.Ctx) error {
	session, err := a.session(c)
	if err != nil {
		return writeError(c, err)
	}

	header, err := c.FormFile("logo")
	if err != nil {
		return writeError(c, invoice.NewError(invoice.KindValidation, "logo file is required", err))
	}

	file, err := header.Open()
	if err != nil {
		return writeError(c, invoice.NewError(invoice.KindInternal, "logo open failed", err))
	}
	defer func() {
		_ = file.Close()
	}()

	contentType := header.Header.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return writeError(c, invoice.NewError(invoice.KindValidation, "logo must be an image", nil))
	}

	key := uuid.NewString() + filepath.Ext(header.Filename)
	if _, err := a.Assets.Put(c.UserContext(), key, file, assets.Meta{
		Name:        header.Filename,
		ContentType: contentType,
	}); err != nil {
		return writeError(c, err)
	}

	a.Sessions.SetLogo(session, key)

	return c.JSON(fiber.Map{
		"session_id": session.ID,
		"logo_url":   "/assets/" + key,
		"filename":   header.Filename,
	})
}

// ServeAsset streams an uploaded asset for the on-screen preview.
func (a *App) ServeAsset(c *fiber.Ctx) error {
	rc, meta, err := a.Assets.Open(c.UserContext(), c.Params("key"))
	if err != nil {
		return writeError(c, err)
	}
	defer func() {
		_ = rc.Close()
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return writeError(c, invoice.NewError(invoice.KindInternal, "asset read failed", err))
	}
	if meta.ContentType != "" {
		c.Set(fiber.HeaderContentType, meta.ContentType)
	}
	return c.Send(data)
}

// Preview renders the current document as the on-screen invoice HTML.
func (a *App) Preview(c *fiber.Ctx) error {
	session, err := a.session(c)
	if err != nil {
		return writeError(c, err)
	}

	doc := session.Document()
	html, err := a.Pipeline.Renderer.Render(c.UserContext(), &doc, invoicetmpl.Options{
		LogoSrc: a.logoSrc(c, doc),
	})
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(html)
}

// Export produces the downloadable artifact for the session document. A
// second export while one is in flight is refused with a conflict status.
func (a *App) Export(c *fiber.Ctx) error {
	session, err := a.session(c)
	if err != nil {
		return writeError(c, err)
	}

	format := invoice.Format(c.Query("format", string(invoice.FormatPDF)))
	switch format {
	case invoice.FormatPDF, invoice.FormatXLSX:
	default:
		return writeError(c, invoice.NewError(invoice.KindValidation, "unsupported export format: "+string(format), nil))
	}

	doc := session.Document()
	artifact, err := a.Pipeline.Export(c.UserContext(), &doc, export.Options{
		Format:  format,
		LogoSrc: a.logoSrc(c, doc),
		Capture: capture.Options{
			PageSize: a.Config.Capture.PageSize,
			Scale:    a.Config.Capture.Scale,
			Quality:  a.Config.Capture.Quality,
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, artifact.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+artifact.Filename+`"`)
	return c.Send(artifact.Data)
}

// EndSession discards the session and releases its uploaded logo.
func (a *App) EndSession(c *fiber.Ctx) error {
	a.Sessions.End(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (a *App) session(c *fiber.Ctx) (*Session, error) {
	return a.Sessions.Get(c.Params("id"))
}

// logoSrc resolves the document's logo reference into an inline data URI
// so the preview and the capture never depend on network fetches.
func (a *App) logoSrc(c *fiber.Ctx, doc invoice.Document) string {
	ref := doc.Sender.LogoRef
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "asset:"):
		key := strings.TrimPrefix(ref, "asset:")
		rc, meta, err := a.Assets.Open(c.UserContext(), key)
		if err != nil {
			a.Logger.Errorf("logo asset open failed: key=%s err=%v", key, err)
			return ""
		}
		defer func() {
			_ = rc.Close()
		}()
		data, err := io.ReadAll(rc)
		if err != nil {
			return ""
		}
		return dataURI(data, meta.ContentType)
	case strings.HasPrefix(ref, "/public/"):
		if a.Config.Server.PublicDir == "" {
			return ""
		}
		rel := strings.TrimPrefix(ref, "/public/")
		data, err := os.ReadFile(filepath.Join(a.Config.Server.PublicDir, filepath.FromSlash(rel)))
		if err != nil {
			a.Logger.Debugf("logo file read failed: ref=%s err=%v", ref, err)
			return ""
		}
		return dataURI(data, mime.TypeByExtension(filepath.Ext(ref)))
	default:
		return ref
	}
}

func dataURI(data []byte, contentType string) string {
	if contentType == "" {
		contentType = "image/png"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
