package views

import (
	"encoding/json"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"
)

// ArchivePath is the route of the full post archive.
const ArchivePath = "/pensieve"

var nonWord = regexp.MustCompile(`[^\pL\pN]+`)

// TagSlug turns display tag text into its URL form: "Systems Design" ->
// "systems-design", "React/Redux" -> "react-redux". Punctuation only separates
// words and never survives into the slug.
func TagSlug(tag string) string {
	return strcase.ToKebab(strings.TrimSpace(nonWord.ReplaceAllString(tag, " ")))
}

// TagPath returns the archive route filtered to tag.
func TagPath(tag string) string {
	return ArchivePath + "/tags/" + url.PathEscape(TagSlug(tag)) + "/"
}

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
