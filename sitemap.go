package pensieve

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pensieve/content"
	"github.com/eringen/pensieve/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// renderSitemap lists the home page, the archive, every tag archive and each
// post that lives on this site. Posts whose slug points elsewhere are left out.
func (a *App) renderSitemap(c echo.Context, posts []content.PostSummary, tags []string) error {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
		{Loc: BuildURL(base, "pensieve")},
	}
	for _, t := range tags {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "pensieve", "tags", views.TagSlug(t))})
	}
	for _, p := range posts {
		loc := ResolveURL(base, p.Slug)
		if !strings.HasPrefix(loc, strings.TrimRight(base, "/")+"/") {
			continue
		}
		u := sitemapURL{Loc: loc}
		if !p.Date.IsZero() {
			u.LastMod = p.Date.UTC().Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
