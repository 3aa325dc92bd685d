// Package web is the HTTP surface of the invoice builder: the profile
// listing and editor pages, the form-controller API that mutates editing
// sessions, and the export download endpoint.
package web

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/oancholarevelo/invoice-builder/assets"
	"github.com/oancholarevelo/invoice-builder/config"
	"github.com/oancholarevelo/invoice-builder/export"
	"github.com/oancholarevelo/invoice-builder/invoice"
	"github.com/oancholarevelo/invoice-builder/profile"
)

// App holds the application dependencies.
type App struct {
	Config   config.Config
	Logger   invoice.Logger
	Profiles profile.Store
	Assets   assets.Store
	Pipeline *export.Pipeline
	Sessions *SessionRegistry
}

// NewApp wires an App from its dependencies.
func NewApp(cfg config.Config, logger invoice.Logger, profiles profile.Store, assetStore assets.Store, pipeline *export.Pipeline) *App {
	if logger == nil {
		logger = invoice.NopLogger{}
	}
	return &App{
		Config:   cfg,
		Logger:   logger,
		Profiles: profiles,
		Assets:   assetStore,
		Pipeline: pipeline,
		Sessions: NewSessionRegistry(cfg.Session.TTL, assetStore, logger),
	}
}

// Handler builds the fiber application with all routes registered.
func (a *App) Handler() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "invoice-builder",
		DisableStartupMessage: true,
		BodyLimit:             a.Config.Server.BodyLimit,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
	}))

	a.SetupRoutes(app)
	return app
}

// SetupRoutes registers all application routes.
func (a *App) SetupRoutes(app *fiber.App) {
	if a.Config.Server.PublicDir != "" {
		app.Static("/public", a.Config.Server.PublicDir)
	}

	// Pages
	app.Get("/", a.HomePage)
	app.Get("/assets/:key", a.ServeAsset)

	// Editing session API (the form controller surface)
	api := app.Group("/api/sessions")
	api.Get("/:id", a.GetSession)
	api.Patch("/:id", a.UpdateField)
	api.Post("/:id/items", a.AddItem)
	api.Patch("/:id/items/:index", a.UpdateItem)
	api.Delete("/:id/items/:index", a.RemoveItem)
	api.Post("/:id/logo", a.UploadLogo)
	api.Get("/:id/preview", a.Preview)
	api.Post("/:id/export", a.Export)
	api.Delete("/:id", a.EndSession)

	// The editor route is registered last so named profiles do not
	// shadow fixed paths.
	app.Get("/:profile", a.EditorPage)
}
