// Package config holds the invoice builder configuration: defaults plus
// environment overrides.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig
	Browser  BrowserConfig
	Capture  CaptureConfig
	Session  SessionConfig
	Profiles ProfilesConfig
	Assets   AssetsConfig
	Debug    bool
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host      string
	Port      string
	PublicDir string
	// BodyLimit caps request bodies, primarily logo uploads.
	BodyLimit int
}

// BrowserConfig holds headless browser settings for the capture engine.
type BrowserConfig struct {
	Path     string
	Headless bool
	Timeout  time.Duration
}

// CaptureConfig holds capture defaults for exports.
type CaptureConfig struct {
	PageSize string
	Scale    float64
	Quality  int
}

// SessionConfig holds editing session settings.
type SessionConfig struct {
	TTL time.Duration
}

// ProfilesConfig selects the profile store backend.
type ProfilesConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string
	// DSN is the SQLite database path for the sqlite backend.
	DSN string
	// Delay simulates lookup latency on the memory backend.
	Delay time.Duration
}

// AssetsConfig selects where uploaded logos are held.
type AssetsConfig struct {
	// Dir is the filesystem root for uploads; empty keeps them in memory.
	Dir string
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:      "localhost",
			Port:      "8080",
			PublicDir: "./public",
			BodyLimit: 5 * 1024 * 1024,
		},
		Browser: BrowserConfig{
			Headless: true,
			Timeout:  30 * time.Second,
		},
		Capture: CaptureConfig{
			PageSize: "A4",
			Scale:    2,
			Quality:  90,
		},
		Session: SessionConfig{
			TTL: 2 * time.Hour,
		},
		Profiles: ProfilesConfig{
			Backend: "memory",
			DSN:     "file:profiles.db",
		},
		Assets: AssetsConfig{},
	}
}

// FromEnv returns the defaults overridden by environment variables.
func FromEnv() Config {
	cfg := Defaults()

	setString(&cfg.Server.Host, "HOST")
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.PublicDir, "PUBLIC_DIR")
	setInt(&cfg.Server.BodyLimit, "BODY_LIMIT")

	setString(&cfg.Browser.Path, "BROWSER_PATH")
	setBool(&cfg.Browser.Headless, "BROWSER_HEADLESS")
	setDuration(&cfg.Browser.Timeout, "BROWSER_TIMEOUT")

	setString(&cfg.Capture.PageSize, "CAPTURE_PAGE_SIZE")
	setFloat(&cfg.Capture.Scale, "CAPTURE_SCALE")
	setInt(&cfg.Capture.Quality, "CAPTURE_QUALITY")

	setDuration(&cfg.Session.TTL, "SESSION_TTL")

	setString(&cfg.Profiles.Backend, "PROFILES_BACKEND")
	setString(&cfg.Profiles.DSN, "PROFILES_DSN")
	setDuration(&cfg.Profiles.Delay, "PROFILES_DELAY")

	setString(&cfg.Assets.Dir, "ASSETS_DIR")
	setBool(&cfg.Debug, "DEBUG")

	return cfg
}

func setString(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func setBool(target *bool, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func setInt(target *int, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func setFloat(target *float64, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}

func setDuration(target *time.Duration, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			*target = parsed
		}
	}
}
