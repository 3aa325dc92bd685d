package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/oancholarevelo/invoice-builder/adapters/capture"
	invoicepdf "github.com/oancholarevelo/invoice-builder/adapters/pdf"
	profilebun "github.com/oancholarevelo/invoice-builder/adapters/profilestore"
	invoicetmpl "github.com/oancholarevelo/invoice-builder/adapters/template"
	"github.com/oancholarevelo/invoice-builder/assets"
	"github.com/oancholarevelo/invoice-builder/config"
	"github.com/oancholarevelo/invoice-builder/export"
	"github.com/oancholarevelo/invoice-builder/logging"
	"github.com/oancholarevelo/invoice-builder/profile"
	"github.com/oancholarevelo/invoice-builder/web"
)

func main() {
	cfg := config.FromEnv()

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()

	profiles, closeProfiles, err := buildProfileStore(ctx, cfg)
	if err != nil {
		logger.Errorf("profile store init failed: %v", err)
		os.Exit(1)
	}
	defer closeProfiles()

	assetStore := buildAssetStore(cfg)

	engine := &capture.Engine{
		BrowserPath: cfg.Browser.Path,
		Headless:    cfg.Browser.Headless,
		Timeout:     cfg.Browser.Timeout,
		Defaults: capture.Options{
			PageSize: cfg.Capture.PageSize,
			Scale:    cfg.Capture.Scale,
			Quality:  cfg.Capture.Quality,
		},
	}
	defer func() {
		_ = engine.Close()
	}()

	pipeline := &export.Pipeline{
		Renderer: invoicetmpl.New(),
		Capture:  engine,
		Composer: invoicepdf.Composer{PageSize: cfg.Capture.PageSize},
		Logger:   logger,
	}

	app := web.NewApp(cfg, logger, profiles, assetStore, pipeline)
	server := app.Handler()

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	go func() {
		logger.Infof("invoice builder listening on http://%s", addr)
		if err := server.Listen(addr); err != nil {
			logger.Errorf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("shutting down")
	if err := server.Shutdown(); err != nil {
		logger.Errorf("shutdown failed: %v", err)
	}
}

func buildProfileStore(ctx context.Context, cfg config.Config) (profile.Store, func(), error) {
	switch cfg.Profiles.Backend {
	case "sqlite":
		store, err := profilebun.Open(ctx, cfg.Profiles.DSN, profile.SeedProfiles())
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		store := profile.NewSeededStore()
		store.Delay = cfg.Profiles.Delay
		return store, func() {}, nil
	}
}

func buildAssetStore(cfg config.Config) assets.Store {
	if cfg.Assets.Dir != "" {
		return assets.NewFSStore(cfg.Assets.Dir)
	}
	return assets.NewMemoryStore()
}
