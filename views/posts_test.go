package views

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
	"golang.org/x/text/language"

	"github.com/eringen/pensieve/content"
	"github.com/eringen/pensieve/reveal"
)

type recordingService struct {
	calls   int
	batches [][]reveal.Registration
	err     error
}

func (s *recordingService) Reveal(_ context.Context, batch []reveal.Registration) error {
	s.calls++
	s.batches = append(s.batches, batch)
	return s.err
}

func post(title string, day int, tags ...string) content.PostSummary {
	return content.PostSummary{
		Title:       title,
		Description: title + " description",
		Date:        time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Tags:        tags,
		Slug:        "/pensieve/" + strings.ToLower(title),
	}
}

func renderSection(t *testing.T, props SectionProps) *html.Node {
	t.Helper()
	var buf bytes.Buffer
	if err := PostsSection(props).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	doc, err := html.Parse(&buf)
	if err != nil {
		t.Fatalf("html.Parse failed: %v", err)
	}
	return doc
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func byClass(n *html.Node, tag, class string) []*html.Node {
	return findAll(n, func(n *html.Node) bool {
		return n.Data == tag && hasClass(n, class)
	})
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func cardTitles(doc *html.Node) []string {
	var titles []string
	for _, h := range byClass(doc, "h3", "post-title") {
		titles = append(titles, strings.TrimSpace(text(h)))
	}
	return titles
}

func TestRecentPosts(t *testing.T) {
	a, b, c, d := post("A", 4), post("B", 3), post("C", 2), post("D", 1)
	tests := []struct {
		name  string
		edges []content.Edge
		want  []string
	}{
		{"more than limit", content.Edges([]content.PostSummary{a, b, c, d}), []string{"A", "B", "C"}},
		{"exactly limit", content.Edges([]content.PostSummary{a, b, c}), []string{"A", "B", "C"}},
		{"fewer than limit", content.Edges([]content.PostSummary{a, b}), []string{"A", "B"}},
		{"empty", nil, nil},
		{"absent edges skipped before slicing", []content.Edge{{}, {Node: &a}, {}, {Node: &b}, {Node: &c}, {Node: &d}}, []string{"A", "B", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, p := range RecentPosts(tt.edges, GridLimit) {
				got = append(got, p.Title)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("RecentPosts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPostsSectionRendersUpToThreeCardsInOrder(t *testing.T) {
	posts := []content.PostSummary{post("Newest", 9), post("Second", 8), post("Third", 7), post("Fourth", 6)}
	doc := renderSection(t, SectionProps{Edges: content.Edges(posts), ReducedMotion: true, Locale: language.AmericanEnglish})

	want := []string{"Newest", "Second", "Third"}
	if diff := cmp.Diff(want, cardTitles(doc)); diff != "" {
		t.Errorf("card titles mismatch (-want +got):\n%s", diff)
	}
	if n := len(byClass(doc, "li", "post")); n != 3 {
		t.Errorf("rendered %d cards, want 3", n)
	}
}

func TestPostsSectionFewerPostsNoPlaceholders(t *testing.T) {
	one := post("Only", 1)
	doc := renderSection(t, SectionProps{
		Edges:         []content.Edge{{Node: nil}, {Node: &one}, {Node: nil}},
		ReducedMotion: true,
		Locale:        language.AmericanEnglish,
	})
	if n := len(byClass(doc, "li", "post")); n != 1 {
		t.Errorf("rendered %d cards, want 1", n)
	}
}

func TestPostsSectionStructure(t *testing.T) {
	p := post("Hello", 2, "Systems Design", "go")
	p.Date = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	p.Slug = "https://example.com/hello"
	doc := renderSection(t, SectionProps{Edges: content.Edges([]content.PostSummary{p}), ReducedMotion: true, Locale: language.AmericanEnglish})

	sections := findAll(doc, func(n *html.Node) bool {
		id, _ := attr(n, "id")
		return n.Data == "section" && id == "posts"
	})
	if len(sections) != 1 {
		t.Fatalf("found %d section#posts, want 1", len(sections))
	}
	for _, class := range []string{"post-inner", "post-icon"} {
		if len(byClass(doc, "div", class)) != 1 {
			t.Errorf("missing div.%s", class)
		}
	}
	if got := strings.TrimSpace(text(byClass(doc, "span", "post-date")[0])); got != "1/2/2024" {
		t.Errorf("date = %q, want %q", got, "1/2/2024")
	}
	if got := text(byClass(doc, "p", "post-description")[0]); got != "Hello description" {
		t.Errorf("description = %q", got)
	}

	titleLink := findAll(byClass(doc, "h3", "post-title")[0], func(n *html.Node) bool { return n.Data == "a" })[0]
	if href, _ := attr(titleLink, "href"); href != "https://example.com/hello" {
		t.Errorf("title href = %q", href)
	}
	if target, _ := attr(titleLink, "target"); target != "_blank" {
		t.Errorf("title target = %q, want _blank", target)
	}
	if rel, _ := attr(titleLink, "rel"); rel != "noreferrer" {
		t.Errorf("title rel = %q, want noreferrer", rel)
	}

	tagLinks := findAll(byClass(doc, "ul", "post-tags")[0], func(n *html.Node) bool { return n.Data == "a" })
	if len(tagLinks) != 2 {
		t.Fatalf("found %d tag links, want 2", len(tagLinks))
	}
	if href, _ := attr(tagLinks[0], "href"); href != "/pensieve/tags/systems-design/" {
		t.Errorf("tag href = %q, want /pensieve/tags/systems-design/", href)
	}
	if got := text(tagLinks[0]); got != "#Systems Design" {
		t.Errorf("tag text = %q, want #Systems Design", got)
	}

	archive := findAll(doc, func(n *html.Node) bool {
		href, _ := attr(n, "href")
		return n.Data == "a" && href == "/pensieve"
	})
	if len(archive) != 1 {
		t.Errorf("found %d archive links, want 1", len(archive))
	}
}

func TestPostsSectionEmptyTags(t *testing.T) {
	p := post("Bare", 1)
	doc := renderSection(t, SectionProps{Edges: content.Edges([]content.PostSummary{p}), ReducedMotion: true})
	tags := byClass(doc, "ul", "post-tags")
	if len(tags) != 1 || tags[0].FirstChild != nil {
		t.Errorf("expected one empty tag list")
	}
}

func TestPostsSectionReducedMotionBypass(t *testing.T) {
	svc := &recordingService{}
	posts := []content.PostSummary{post("A", 3), post("B", 2), post("C", 1)}
	doc := renderSection(t, SectionProps{Edges: content.Edges(posts), ReducedMotion: true, Reveal: svc})

	if svc.calls != 0 {
		t.Errorf("reveal calls = %d, want 0", svc.calls)
	}
	revealed := findAll(doc, func(n *html.Node) bool {
		_, ok := attr(n, "data-reveal")
		return ok
	})
	if len(revealed) != 0 {
		t.Errorf("found %d elements with data-reveal, want 0", len(revealed))
	}
	for _, li := range byClass(doc, "li", "post") {
		if hasClass(li, "fadeup-enter") {
			t.Error("card rendered in entering state under reduced motion")
		}
	}
}

func TestPostsSectionAnimatedRegistersOncePerMount(t *testing.T) {
	svc := &recordingService{}
	posts := []content.PostSummary{post("A", 4), post("B", 3), post("C", 2), post("D", 1)}
	doc := renderSection(t, SectionProps{Edges: content.Edges(posts), Reveal: svc})

	if svc.calls != 1 {
		t.Fatalf("reveal calls = %d, want 1", svc.calls)
	}
	batch := svc.batches[0]
	if len(batch) != 4 {
		t.Fatalf("batch size = %d, want 3 cards + heading", len(batch))
	}
	if batch[0].Target.Kind != reveal.KindHeading {
		t.Errorf("first registration = %v, want heading", batch[0].Target)
	}
	for i, reg := range batch[1:] {
		if reg.Target.Kind != reveal.KindCard || reg.Target.Index != i {
			t.Errorf("registration %d target = %+v", i+1, reg.Target)
		}
		if want := int64(i * 100); reg.Config.Delay != want {
			t.Errorf("card %d delay = %d, want %d", i, reg.Config.Delay, want)
		}
	}

	cards := byClass(doc, "li", "post")
	for i, li := range cards {
		h, ok := attr(li, "data-reveal")
		if !ok || h != string(batch[i+1].Handle) {
			t.Errorf("card %d data-reveal = %q, want %q", i, h, batch[i+1].Handle)
		}
		if !hasClass(li, "fadeup-enter") {
			t.Errorf("card %d missing fadeup-enter", i)
		}
	}
	heading := findAll(doc, func(n *html.Node) bool { return n.Data == "h2" })[0]
	if h, _ := attr(heading, "data-reveal"); h != string(batch[0].Handle) {
		t.Errorf("heading data-reveal = %q, want %q", h, batch[0].Handle)
	}
}

func TestPostsSectionEachRenderIsItsOwnMount(t *testing.T) {
	svc := &recordingService{}
	section := PostsSection(SectionProps{Edges: content.Edges([]content.PostSummary{post("A", 1)}), Reveal: svc})
	for i := 0; i < 2; i++ {
		if err := section.Render(context.Background(), &bytes.Buffer{}); err != nil {
			t.Fatalf("Render %d failed: %v", i, err)
		}
	}
	if svc.calls != 2 {
		t.Errorf("reveal calls = %d, want one per render", svc.calls)
	}
	if svc.batches[0][0].Handle == svc.batches[1][0].Handle {
		t.Error("handles should differ between mounts")
	}
}

func TestPostsSectionRevealError(t *testing.T) {
	boom := errors.New("boom")
	err := PostsSection(SectionProps{Reveal: &recordingService{err: boom}}).Render(context.Background(), &bytes.Buffer{})
	if !errors.Is(err, boom) {
		t.Errorf("Render error = %v, want wrapped boom", err)
	}
}

func TestPostsSectionEscapesContent(t *testing.T) {
	p := post("x", 1)
	p.Title = `<script>alert(1)</script>`
	p.Slug = "javascript:alert(1)"
	var buf bytes.Buffer
	if err := PostsSection(SectionProps{Edges: content.Edges([]content.PostSummary{p}), ReducedMotion: true}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<script>") {
		t.Error("title was not escaped")
	}
	if strings.Contains(out, `href="javascript:`) {
		t.Error("unsafe slug was not sanitized")
	}
}
