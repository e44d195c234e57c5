package pensieve

import (
	"net/url"
	"path"
	"strings"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
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

// ResolveURL makes a post slug absolute against the site URL. Slugs that are
// already absolute URLs are returned unchanged.
func ResolveURL(base, slug string) string {
	b, err := url.Parse(base)
	if err != nil {
		return slug
	}
	ref, err := url.Parse(slug)
	if err != nil {
		return slug
	}
	return b.ResolveReference(ref).String()
}
