// Package pensieve serves a personal site's writing: a recent posts section on
// the home page, a full archive with tag pages, RSS and a sitemap, all read
// from a SQLite index built out of a directory of markdown files.
package pensieve

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/eringen/pensieve/content"
	"github.com/eringen/pensieve/views"
)

// App is the central pensieve application. It wires together the index,
// cache, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache

	log          *zap.Logger
	locale       language.Tag
	sessionKey   []byte
	watcher      *content.Watcher
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		log:       zap.NewNop(),
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the index, builds it from the content directory, and sets up
// middleware and routes. Start calls it; tests call it directly.
func (a *App) Init() error {
	a.locale = views.ParseLocale(a.Config.Locale)

	a.sessionKey = []byte(a.Config.SessionSecret)
	if len(a.sessionKey) == 0 {
		a.sessionKey = make([]byte, 32)
		if _, err := rand.Read(a.sessionKey); err != nil {
			return fmt.Errorf("pensieve: session key: %w", err)
		}
		a.log.Warn("no session secret configured; motion preferences reset on restart")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("pensieve: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.Section, a.Config.CacheTTL)

	if _, err := a.Reindex(); err != nil {
		return fmt.Errorf("pensieve: build index: %w", err)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app, optionally watches the content directory, and
// serves until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return err
	}

	if a.Config.Watch {
		w, err := content.NewWatcher(a.Config.ContentDir, 300*time.Millisecond, func() {
			if _, err := a.Reindex(); err != nil {
				a.log.Error("reindex", zap.Error(err))
			}
		}, a.log.Named("watch"))
		if err != nil {
			return fmt.Errorf("pensieve: watch content: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("pensieve: watch content: %w", err)
		}
		a.watcher = w
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("listening", zap.String("addr", a.Config.Addr))
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/reveal.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.Static("/public", a.staticDir)

	e.GET("/", a.handleHome)
	e.GET(views.ArchivePath+"/", a.handleArchive)
	e.GET(views.ArchivePath+"/tags/:tag/", a.handleTag)
	e.POST("/preferences/motion/", a.handleMotionPreference)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
}

func (a *App) viewConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}

// Logger returns the app's logger.
func (a *App) Logger() *zap.Logger {
	return a.log
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
