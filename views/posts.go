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

// GridLimit is the number of posts shown in the recent posts grid.
const GridLimit = 3

const (
	postsHeading  = "Some posts I wrote recently"
	archiveButton = "Check out all posts"
)

// Card is the view model of one post card.
type Card struct {
	Title       string
	Href        string
	Description string
	Date        string
	Tags        []TagLink
}

// TagLink is a tag label and its archive route.
type TagLink struct {
	Label string
	Href  string
}

// SectionProps is everything the posts section renders from. Edges must
// already be filtered to published posts and sorted newest first.
type SectionProps struct {
	Edges         []content.Edge
	ReducedMotion bool
	Locale        language.Tag
	Reveal        reveal.Service
}

// RecentPosts drops absent edges and keeps the first limit posts in order.
func RecentPosts(edges []content.Edge, limit int) []content.PostSummary {
	posts := content.Nodes(edges)
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}

// NewCard maps a post to its card view model.
func NewCard(p content.PostSummary, locale language.Tag) Card {
	tags := make([]TagLink, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = TagLink{Label: t, Href: TagPath(t)}
	}
	return Card{
		Title:       p.Title,
		Href:        p.Slug,
		Description: p.Description,
		Date:        FormatDate(p.Date, locale),
		Tags:        tags,
	}
}

// PostsSection renders the recent posts section. Unless reduced motion is
// requested, the heading and every card are handed to the reveal service in
// a single call once the markup has been written.
func PostsSection(p SectionProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		posts := RecentPosts(p.Edges, GridLimit)
		cards := make([]Card, len(posts))
		for i, post := range posts {
			cards[i] = NewCard(post, p.Locale)
		}

		s := selectStrategy(p.ReducedMotion, p.Reveal)
		var buf bytes.Buffer
		writePostsSection(&buf, cards, s)
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
		return s.mounted(ctx)
	})
}

// revealStrategy decides how the section's elements enter the page.
type revealStrategy interface {
	heading() elementState
	card(i int) elementState
	mounted(ctx context.Context) error
}

// elementState is the visual state an element is rendered in.
type elementState struct {
	class  string
	handle reveal.Handle
}

func selectStrategy(reducedMotion bool, svc reveal.Service) revealStrategy {
	if reducedMotion || svc == nil {
		return staticStrategy{}
	}
	return &animatedStrategy{mount: reveal.NewMount(), svc: svc}
}

// staticStrategy renders everything settled and registers nothing.
type staticStrategy struct{}

func (staticStrategy) heading() elementState         { return elementState{} }
func (staticStrategy) card(int) elementState         { return elementState{} }
func (staticStrategy) mounted(context.Context) error { return nil }

type animatedStrategy struct {
	mount *reveal.Mount
	svc   reveal.Service
}

func (s *animatedStrategy) heading() elementState {
	h := s.mount.Track(reveal.Target{Kind: reveal.KindHeading}, reveal.DefaultConfig())
	return elementState{handle: h}
}

func (s *animatedStrategy) card(i int) elementState {
	h := s.mount.Track(reveal.Target{Kind: reveal.KindCard, Index: i}, reveal.CardConfig(i))
	return elementState{class: "fadeup-enter", handle: h}
}

func (s *animatedStrategy) mounted(ctx context.Context) error {
	return s.mount.Begin(ctx, s.svc)
}

func writePostsSection(buf *bytes.Buffer, cards []Card, s revealStrategy) {
	buf.WriteString(`<section id="posts" class="posts-section">`)

	buf.WriteString(`<h2 class="numbered-heading"`)
	writeRevealAttr(buf, s.heading())
	buf.WriteString(`>`)
	buf.WriteString(templ.EscapeString(postsHeading))
	buf.WriteString(`</h2>`)

	buf.WriteString(`<ul class="posts-grid">`)
	for i, c := range cards {
		st := s.card(i)
		buf.WriteString(`<li class="`)
		buf.WriteString(joinClass("post", st.class))
		buf.WriteString(`"`)
		writeRevealAttr(buf, st)
		buf.WriteString(`>`)
		writeCardInner(buf, c)
		buf.WriteString(`</li>`)
	}
	buf.WriteString(`</ul>`)

	buf.WriteString(`<a href="`)
	buf.WriteString(ArchivePath)
	buf.WriteString(`"><button class="all-button">`)
	buf.WriteString(templ.EscapeString(archiveButton))
	buf.WriteString(`</button></a>`)

	buf.WriteString(`</section>`)
}

func writeCardInner(buf *bytes.Buffer, c Card) {
	buf.WriteString(`<div class="post-inner"><header>`)
	buf.WriteString(`<div class="post-icon">`)
	buf.WriteString(iconBookmark)
	buf.WriteString(`</div>`)

	buf.WriteString(`<h3 class="post-title"><a href="`)
	buf.WriteString(safeHref(c.Href))
	buf.WriteString(`" target="_blank" rel="noreferrer">`)
	buf.WriteString(templ.EscapeString(c.Title))
	buf.WriteString(`</a></h3>`)

	buf.WriteString(`<p class="post-description">`)
	buf.WriteString(templ.EscapeString(c.Description))
	buf.WriteString(`</p></header>`)

	buf.WriteString(`<footer><span class="post-date">`)
	buf.WriteString(templ.EscapeString(c.Date))
	buf.WriteString(`</span><ul class="post-tags">`)
	for _, t := range c.Tags {
		buf.WriteString(`<li><a href="`)
		buf.WriteString(safeHref(t.Href))
		buf.WriteString(`" class="inline-link">#`)
		buf.WriteString(templ.EscapeString(t.Label))
		buf.WriteString(`</a></li>`)
	}
	buf.WriteString(`</ul></footer></div>`)
}

func writeRevealAttr(buf *bytes.Buffer, st elementState) {
	if st.handle == "" {
		return
	}
	buf.WriteString(` data-reveal="`)
	buf.WriteString(templ.EscapeString(string(st.handle)))
	buf.WriteString(`"`)
}

func joinClass(base, extra string) string {
	if extra == "" {
		return base
	}
	return base + " " + extra
}

// safeHref drops javascript: and other unsafe schemes and escapes for an attribute.
func safeHref(raw string) string {
	return templ.EscapeString(string(templ.URL(raw)))
}
