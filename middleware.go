package pensieve

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/eringen/pensieve/views"
)

const (
	sessionName = "preferences"

	reducedMotionKey = "reducedMotion"
	localeKey        = "locale"

	// HeaderReducedMotion is the user-preference media feature client hint.
	HeaderReducedMotion = "Sec-CH-Prefers-Reduced-Motion"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			a.log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/public/")
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; connect-src 'self'",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:  middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup: "header:X-CSRF-Token,form:_csrf",
		CookieName:  "_csrf",
		CookiePath:  "/",
		CookieSameSite: func() http.SameSite {
			return http.SameSiteLaxMode
		}(),
		CookieSecure: a.Config.CookieSecure,
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/" ||
				strings.HasPrefix(path, "/public") ||
				path == "/sitemap.xml" || path == "/feed.xml"
		},
	}))

	e.Use(cacheControlMiddleware)
	e.Use(a.preferencesMiddleware)
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case strings.HasPrefix(path, "/public/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case path == "/sitemap.xml" || path == "/feed.xml":
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		case strings.HasPrefix(path, "/preferences"):
			c.Response().Header().Set("Cache-Control", "no-store")
		default:
			// Pages differ by motion preference and locale; shared caches key on Vary.
			c.Response().Header().Set("Cache-Control", "private, max-age=300")
		}
		return next(c)
	}
}

// preferencesMiddleware resolves the reduced-motion signal and date locale
// for the request and advertises the client hint it reads.
func (a *App) preferencesMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("Accept-CH", HeaderReducedMotion)
		// Ask the browser to retry with the hint so a first visit is not animated
		// against the visitor's preference.
		h.Set("Critical-CH", HeaderReducedMotion)
		h.Add("Vary", HeaderReducedMotion)
		h.Add("Vary", "Accept-Language")
		h.Add("Vary", "Cookie")

		c.Set(reducedMotionKey, prefersReducedMotion(c))
		c.Set(localeKey, views.MatchLocale(c.Request().Header.Get("Accept-Language"), a.locale))
		return next(c)
	}
}

// prefersReducedMotion reports the visitor's preference: an explicit choice
// stored in the session wins over the browser's client hint.
func prefersReducedMotion(c echo.Context) bool {
	if sess, err := session.Get(sessionName, c); err == nil {
		if v, ok := sess.Values[reducedMotionKey].(bool); ok {
			return v
		}
	}
	return strings.EqualFold(strings.TrimSpace(c.Request().Header.Get(HeaderReducedMotion)), "reduce")
}

// ReducedMotion returns the reduced-motion signal resolved for this request.
func ReducedMotion(c echo.Context) bool {
	v, _ := c.Get(reducedMotionKey).(bool)
	return v
}

// Locale returns the date locale resolved for this request.
func Locale(c echo.Context) language.Tag {
	if v, ok := c.Get(localeKey).(language.Tag); ok {
		return v
	}
	return views.DefaultLocale
}

func setMotionPreference(c echo.Context, reduce bool) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[reducedMotionKey] = reduce
	return sess.Save(c.Request(), c.Response())
}

func clearMotionPreference(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	delete(sess.Values, reducedMotionKey)
	return sess.Save(c.Request(), c.Response())
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore(a.sessionKey)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 365,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}
