package pensieve

import (
	"errors"
	"sync"
	"time"

	"github.com/eringen/pensieve/content"
	"github.com/eringen/pensieve/views"
)

// ErrNotFound is returned when a requested tag has no published posts.
var ErrNotFound = errors.New("not found")

// PostCache is an in-memory cache of one section's published posts and tags with TTL.
type PostCache struct {
	mu      sync.RWMutex
	edges   []content.Edge
	tags    []string
	loaded  bool
	fetched time.Time
	ttl     time.Duration
	section string
	store   *Store
}

// NewPostCache creates a PostCache over section backed by the given Store.
func NewPostCache(s *Store, section string, ttl time.Duration) *PostCache {
	return &PostCache{store: s, section: section, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.loaded && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.edges = nil
	c.tags = nil
	c.loaded = false
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	edges, err := c.store.QueryPosts(Query{Section: c.section})
	if err != nil {
		return err
	}
	tags, err := c.store.ListTags(c.section)
	if err != nil {
		return err
	}
	c.edges = edges
	c.tags = tags
	c.loaded = true
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached edges and tags after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded() ([]content.Edge, []string, error) {
	c.mu.RLock()
	if c.valid() {
		edges, tags := c.edges, c.tags
		c.mu.RUnlock()
		return edges, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.edges, c.tags, nil
}

// Edges returns the section's published posts, newest first.
func (c *PostCache) Edges() ([]content.Edge, error) {
	edges, _, err := c.ensureLoaded()
	return edges, err
}

// ListPosts returns published posts, optionally filtered to those carrying a
// tag whose URL form is tagSlug.
func (c *PostCache) ListPosts(tagSlug string) ([]content.PostSummary, error) {
	edges, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	posts := content.Nodes(edges)
	if tagSlug == "" {
		return posts, nil
	}
	var filtered []content.PostSummary
	for _, p := range posts {
		for _, t := range p.Tags {
			if views.TagSlug(t) == tagSlug {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// ListTags returns all unique tags from published posts.
func (c *PostCache) ListTags() ([]string, error) {
	_, tags, err := c.ensureLoaded()
	return tags, err
}

// LookupTag returns the display spelling of the tag whose URL form is tagSlug.
func (c *PostCache) LookupTag(tagSlug string) (string, error) {
	_, tags, err := c.ensureLoaded()
	if err != nil {
		return "", err
	}
	for _, t := range tags {
		if views.TagSlug(t) == tagSlug {
			return t, nil
		}
	}
	return "", ErrNotFound
}
