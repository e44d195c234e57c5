package views

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/eringen/pensieve/content"
	"github.com/eringen/pensieve/reveal"
)

// Page wraps body in the document shell. When scripts collected any reveal
// registrations during the body render, the bootstrap and its data follow
// the body.
func Page(cfg SiteConfig, meta PageMeta, scripts *reveal.Collector, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var head bytes.Buffer
		writeHead(&head, cfg, meta)
		if _, err := w.Write(head.Bytes()); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</main>`); err != nil {
			return err
		}
		if scripts != nil && len(scripts.Registrations()) > 0 {
			if err := scripts.Script().Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, `<script src="/public/scrollreveal.min.js" defer></script><script src="/public/reveal.js" defer></script>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

func writeHead(buf *bytes.Buffer, cfg SiteConfig, meta PageMeta) {
	title := cfg.Name
	if meta.Title != "" && meta.Title != cfg.Name {
		title = meta.Title + " | " + cfg.Name
	}
	description := meta.Description
	if description == "" {
		description = cfg.Description
	}
	ogType := meta.OGType
	if ogType == "" {
		ogType = "website"
	}

	lang := "en"
	if meta.Lang != language.Und {
		lang = meta.Lang.String()
	}

	buf.WriteString(`<!DOCTYPE html><html lang="`)
	buf.WriteString(templ.EscapeString(lang))
	buf.WriteString(`"><head><meta charset="utf-8">`)
	buf.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	buf.WriteString(`<title>`)
	buf.WriteString(templ.EscapeString(title))
	buf.WriteString(`</title>`)
	buf.WriteString(`<meta name="description" content="`)
	buf.WriteString(templ.EscapeString(description))
	buf.WriteString(`"><meta property="og:title" content="`)
	buf.WriteString(templ.EscapeString(title))
	buf.WriteString(`"><meta property="og:type" content="`)
	buf.WriteString(templ.EscapeString(ogType))
	buf.WriteString(`">`)
	if meta.URL != "" {
		buf.WriteString(`<link rel="canonical" href="`)
		buf.WriteString(safeHref(meta.URL))
		buf.WriteString(`"><meta property="og:url" content="`)
		buf.WriteString(safeHref(meta.URL))
		buf.WriteString(`">`)
	}
	buf.WriteString(`<link rel="alternate" type="application/rss+xml" href="/feed.xml">`)
	buf.WriteString(`<link rel="stylesheet" href="/public/styles.css">`)
	buf.WriteString(`<script type="application/ld+json">`)
	buf.WriteString(WebsiteJsonLD(cfg))
	buf.WriteString(`</script></head><body><main id="content">`)
}

// Home is the landing page: the recent posts section.
func Home(cfg SiteConfig, scripts *reveal.Collector, section SectionProps) templ.Component {
	meta := PageMeta{Title: cfg.Name, URL: buildURL(cfg.URL), OGType: "website", Lang: section.Locale}
	return Page(cfg, meta, scripts, PostsSection(section))
}

// Archive lists every post, optionally narrowed to one tag.
func Archive(cfg SiteConfig, posts []content.PostSummary, tag string, locale language.Tag) templ.Component {
	meta := PageMeta{Title: "Archive", URL: buildURL(cfg.URL, "pensieve"), OGType: "website", Lang: locale}
	heading := "Archive"
	if tag != "" {
		heading = "#" + tag
		meta.Title = heading
		meta.URL = buildURL(cfg.URL, "pensieve", "tags", TagSlug(tag))
	}
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		writeArchive(&buf, heading, posts, locale)
		_, err := w.Write(buf.Bytes())
		return err
	})
	return Page(cfg, meta, nil, body)
}

func writeArchive(buf *bytes.Buffer, heading string, posts []content.PostSummary, locale language.Tag) {
	buf.WriteString(`<section id="archive"><h1 class="big-heading">`)
	buf.WriteString(templ.EscapeString(heading))
	buf.WriteString(`</h1>`)
	if len(posts) == 0 {
		buf.WriteString(`<p class="archive-empty">Nothing here yet.</p></section>`)
		return
	}
	buf.WriteString(`<ul class="archive-list">`)
	for _, p := range posts {
		c := NewCard(p, locale)
		buf.WriteString(`<li class="archive-item"><span class="post-date">`)
		buf.WriteString(templ.EscapeString(c.Date))
		buf.WriteString(`</span> <a class="post-title" href="`)
		buf.WriteString(safeHref(c.Href))
		buf.WriteString(`">`)
		buf.WriteString(templ.EscapeString(c.Title))
		buf.WriteString(`</a><ul class="post-tags">`)
		for _, t := range c.Tags {
			buf.WriteString(`<li><a href="`)
			buf.WriteString(safeHref(t.Href))
			buf.WriteString(`" class="inline-link">#`)
			buf.WriteString(templ.EscapeString(t.Label))
			buf.WriteString(`</a></li>`)
		}
		buf.WriteString(`</ul></li>`)
	}
	buf.WriteString(`</ul></section>`)
}

// NotFound is the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	return errorPage(cfg, "Page not found", "404", "The page you are looking for does not exist.")
}

// ServerError is the 500 page.
func ServerError(cfg SiteConfig) templ.Component {
	return errorPage(cfg, "Server error", "500", "Something went wrong. Please try again later.")
}

func errorPage(cfg SiteConfig, title, code, message string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		buf.WriteString(`<section class="error-page"><h1 class="error-code">`)
		buf.WriteString(code)
		buf.WriteString(`</h1><p>`)
		buf.WriteString(templ.EscapeString(message))
		buf.WriteString(`</p><a class="inline-link" href="/">Go home</a></section>`)
		_, err := w.Write(buf.Bytes())
		return err
	})
	return Page(cfg, PageMeta{Title: title}, nil, body)
}
