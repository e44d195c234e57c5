// Package content reads authored posts from a content directory and describes
// the records the site index is built from.
package content

import "time"

// PostSummary is the metadata a post card is rendered from.
type PostSummary struct {
	Title       string
	Description string
	Date        time.Time
	Tags        []string
	Slug        string
}

// Edge is one entry of an index query. A nil Node marks an absent record.
type Edge struct {
	Node *PostSummary
}

// Record is a post as read from a markdown file, before it enters the index.
type Record struct {
	Path  string // relative to the content root, slash separated
	Draft bool
	Post  PostSummary
}

// Nodes drops absent edges and returns the remaining posts in order.
func Nodes(edges []Edge) []PostSummary {
	out := make([]PostSummary, 0, len(edges))
	for _, e := range edges {
		if e.Node == nil {
			continue
		}
		out = append(out, *e.Node)
	}
	return out
}

// Edges wraps posts as query edges.
func Edges(posts []PostSummary) []Edge {
	out := make([]Edge, len(posts))
	for i := range posts {
		p := posts[i]
		out[i] = Edge{Node: &p}
	}
	return out
}
