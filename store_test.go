package pensieve

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/eringen/pensieve/content"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test_index.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func record(path, title, date string, draft bool, tags ...string) content.Record {
	d, err := content.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return content.Record{
		Path:  path,
		Draft: draft,
		Post: content.PostSummary{
			Title:       title,
			Description: title + " description",
			Date:        d,
			Tags:        tags,
			Slug:        "/pensieve/" + title,
		},
	}
}

func titles(edges []content.Edge) []string {
	var out []string
	for _, p := range content.Nodes(edges) {
		out = append(out, p.Title)
	}
	return out
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
}

func TestQueryPostsFiltersAndSorts(t *testing.T) {
	s := setupTestStore(t)
	err := s.Replace([]content.Record{
		record("posts/old.md", "old", "2023-06-01", false),
		record("posts/draft.md", "draft", "2024-05-01", true),
		record("posts/new/index.md", "new", "2024-03-01", false, "go"),
		record("projects/other.md", "project", "2024-04-01", false),
		record("about.md", "about", "2024-04-01", false),
		record("posts/mid.md", "mid", "2024-01-15", false),
	})
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	edges, err := s.QueryPosts(Query{Section: "posts"})
	if err != nil {
		t.Fatalf("QueryPosts failed: %v", err)
	}
	want := []string{"new", "mid", "old"}
	if diff := cmp.Diff(want, titles(edges)); diff != "" {
		t.Errorf("QueryPosts mismatch (-want +got):\n%s", diff)
	}

	withDrafts, err := s.QueryPosts(Query{Section: "posts", IncludeDrafts: true})
	if err != nil {
		t.Fatalf("QueryPosts failed: %v", err)
	}
	if diff := cmp.Diff([]string{"draft", "new", "mid", "old"}, titles(withDrafts)); diff != "" {
		t.Errorf("QueryPosts with drafts mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryPostsTiesKeepIndexOrder(t *testing.T) {
	s := setupTestStore(t)
	err := s.Replace([]content.Record{
		record("posts/b.md", "b", "2024-01-01", false),
		record("posts/a.md", "a", "2024-01-01", false),
		record("posts/c.md", "c", "2024-01-01", false),
	})
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	edges, err := s.QueryPosts(Query{Section: "posts"})
	if err != nil {
		t.Fatalf("QueryPosts failed: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, titles(edges)); diff != "" {
		t.Errorf("tie order mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryPostsRoundTripsFields(t *testing.T) {
	s := setupTestStore(t)
	rec := record("posts/hello.md", "hello", "2024-01-02", false, "Systems Design", "go")
	if err := s.Replace([]content.Record{rec}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	edges, err := s.QueryPosts(Query{Section: "/posts/"})
	if err != nil {
		t.Fatalf("QueryPosts failed: %v", err)
	}
	if len(edges) != 1 || edges[0].Node == nil {
		t.Fatalf("edges = %v, want one post", edges)
	}
	got := *edges[0].Node
	if diff := cmp.Diff(rec.Post, got); diff != "" {
		t.Errorf("post mismatch (-want +got):\n%s", diff)
	}
	if !got.Date.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v", got.Date)
	}
}

func TestReplaceDropsPreviousIndex(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Replace([]content.Record{record("posts/a.md", "a", "2024-01-01", false)}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if err := s.Replace([]content.Record{record("posts/b.md", "b", "2024-01-01", false)}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	edges, err := s.QueryPosts(Query{Section: "posts"})
	if err != nil {
		t.Fatalf("QueryPosts failed: %v", err)
	}
	if diff := cmp.Diff([]string{"b"}, titles(edges)); diff != "" {
		t.Errorf("after second Replace (-want +got):\n%s", diff)
	}
}

func TestReplaceIsAtomic(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Replace([]content.Record{record("posts/a.md", "a", "2024-01-01", false)}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	dup := record("posts/b.md", "b", "2024-01-01", false)
	if err := s.Replace([]content.Record{dup, dup}); err == nil {
		t.Fatal("expected error for duplicate path")
	}
	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d after failed Replace, want previous index of 1", n)
	}
}

func TestListTags(t *testing.T) {
	s := setupTestStore(t)
	err := s.Replace([]content.Record{
		record("posts/a.md", "a", "2024-01-01", false, "Systems Design", "go"),
		record("posts/b.md", "b", "2024-01-02", false, "Go", "Testing"),
		record("posts/c.md", "c", "2024-01-03", true, "secret"),
		record("projects/d.md", "d", "2024-01-03", false, "elsewhere"),
	})
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	tags, err := s.ListTags("posts")
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	want := []string{"go", "Systems Design", "Testing"}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Errorf("ListTags mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{",go,web,", []string{"go", "web"}},
		{",Systems Design,", []string{"Systems Design"}},
		{"", nil},
		{",,", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, ParseTags(tt.input)); diff != "" {
			t.Errorf("ParseTags(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestFormatTags(t *testing.T) {
	tests := []struct {
		input []string
		want  string
	}{
		{[]string{"go", "web"}, ",go,web,"},
		{[]string{" a,b "}, ",a b,"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := FormatTags(tt.input); got != tt.want {
			t.Errorf("FormatTags(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
