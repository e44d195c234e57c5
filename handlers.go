package pensieve

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/pensieve/reveal"
	"github.com/eringen/pensieve/views"
)

func (a *App) handleHome(c echo.Context) error {
	edges, err := a.Cache.Edges()
	if err != nil {
		return err
	}
	scripts := reveal.NewCollector()
	return Render(c, views.Home(a.viewConfig(), scripts, views.SectionProps{
		Edges:         edges,
		ReducedMotion: ReducedMotion(c),
		Locale:        Locale(c),
		Reveal:        scripts,
	}))
}

func (a *App) handleArchive(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return Render(c, views.Archive(a.viewConfig(), posts, "", Locale(c)))
}

func (a *App) handleTag(c echo.Context) error {
	slug, err := url.PathUnescape(c.Param("tag"))
	if err != nil {
		return RenderStatus(c, http.StatusNotFound, views.NotFound(a.viewConfig()))
	}
	tag, err := a.Cache.LookupTag(slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound(a.viewConfig()))
		}
		return err
	}
	posts, err := a.Cache.ListPosts(slug)
	if err != nil {
		return err
	}
	return Render(c, views.Archive(a.viewConfig(), posts, tag, Locale(c)))
}

// handleMotionPreference stores an explicit reduced-motion choice ("true" or
// "false") or, for "auto", goes back to following the browser's hint.
func (a *App) handleMotionPreference(c echo.Context) error {
	value := c.FormValue("reduce")
	var err error
	if value == "auto" || value == "" {
		err = clearMotionPreference(c)
	} else {
		var reduce bool
		reduce, err = strconv.ParseBool(value)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "reduce must be true, false or auto")
		}
		err = setMotionPreference(c, reduce)
	}
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, safeRedirect(c.FormValue("next")))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts, tags)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.viewConfig()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.log.Error("server error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		_ = RenderStatus(c, code, views.ServerError(a.viewConfig()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// safeRedirect only follows local absolute paths.
func safeRedirect(next string) string {
	if len(next) > 1 && next[0] == '/' && next[1] != '/' && next[1] != '\\' {
		return next
	}
	return "/"
}
