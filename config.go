package pensieve

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// SiteConfig holds all configuration for a pensieve site.
type SiteConfig struct {
	Name        string `koanf:"name"`        // Site name (default "Pensieve")
	URL         string `koanf:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `koanf:"description"` // Site description for RSS and meta tags
	Author      string `koanf:"author"`      // Author name for JSON-LD

	Addr         string `koanf:"addr"`          // Listen address (default ":3000")
	DatabasePath string `koanf:"database_path"` // SQLite index path (default "data/index.db")

	ContentDir string        `koanf:"content_dir"` // Markdown content root (default "content")
	Section    string        `koanf:"section"`     // Directory under ContentDir holding posts (default "posts")
	Watch      bool          `koanf:"watch"`       // Reindex when ContentDir changes
	Locale     string        `koanf:"locale"`      // Fallback date locale (default "en-US")
	CacheTTL   time.Duration `koanf:"cache_ttl"`   // Post cache TTL (default 5min)

	SessionSecret string `koanf:"session_secret"` // Preference cookie secret; random per process when empty
	CookieSecure  bool   `koanf:"cookie_secure"`  // Set true for HTTPS

	LogMode string `koanf:"log_mode"` // "production" or "development" (default)
}

const envPrefix = "PENSIEVE_"

func defaults() map[string]any {
	return map[string]any{
		"name":          "Pensieve",
		"url":           "http://localhost:3000",
		"addr":          ":3000",
		"database_path": "data/index.db",
		"content_dir":   "content",
		"section":       "posts",
		"watch":         false,
		"locale":        "en-US",
		"cache_ttl":     "5m",
		"cookie_secure": false,
		"log_mode":      "development",
	}
}

// LoadConfig layers defaults, the YAML file at path (if it exists) and
// PENSIEVE_* environment variables, in increasing precedence.
func LoadConfig(path string) (SiteConfig, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return SiteConfig{}, fmt.Errorf("loading defaults: %w", err)
	}
	if path != "" {
		if err := loadFileIfExists(k, path); err != nil {
			return SiteConfig{}, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg SiteConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return k.Load(file.Provider(path), yaml.Parser())
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Pensieve"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/index.db"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.Section == "" {
		c.Section = "posts"
	}
	if c.Locale == "" {
		c.Locale = "en-US"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the no-op default logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.log = l
	}
}
