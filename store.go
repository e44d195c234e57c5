package pensieve

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/pensieve/content"
)

// Query selects posts from the index.
type Query struct {
	Section       string // top-level content directory, e.g. "posts"
	IncludeDrafts bool
}

// Store is the SQLite content index built from the content directory.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets page renders read while a reindex writes.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    section TEXT NOT NULL,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    date TEXT NOT NULL,
    tags TEXT NOT NULL,
    draft INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS posts_section_date ON posts (section, date DESC);
`)
	return err
}

// Replace rebuilds the index from records in a single transaction. Records
// keep their given order for posts that share a date.
func (s *Store) Replace(records []content.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM posts`); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO posts (path, section, slug, title, description, date, tags, draft) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		draft := 0
		if r.Draft {
			draft = 1
		}
		_, err := stmt.Exec(
			r.Path,
			content.SectionOf(r.Path),
			r.Post.Slug,
			r.Post.Title,
			r.Post.Description,
			r.Post.Date.UTC().Format(time.RFC3339),
			FormatTags(r.Post.Tags),
			draft,
		)
		if err != nil {
			return fmt.Errorf("index %s: %w", r.Path, err)
		}
	}
	return tx.Commit()
}

// QueryPosts returns the posts matching q, newest first. Posts with the same
// date come back in index order.
func (s *Store) QueryPosts(q Query) ([]content.Edge, error) {
	rows, err := s.db.Query(`SELECT slug, title, description, date, tags FROM posts
		WHERE section = ? AND (? OR draft = 0)
		ORDER BY date DESC, seq ASC`, strings.Trim(q.Section, "/"), q.IncludeDrafts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []content.Edge
	for rows.Next() {
		var slug, title, description, date, tags string
		if err := rows.Scan(&slug, &title, &description, &date, &tags); err != nil {
			return nil, err
		}
		published, err := time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, fmt.Errorf("post %s: %w", slug, err)
		}
		edges = append(edges, content.Edge{Node: &content.PostSummary{
			Title:       title,
			Description: description,
			Date:        published,
			Tags:        ParseTags(tags),
			Slug:        slug,
		}})
	}
	return edges, rows.Err()
}

// ListTags returns the sorted, deduplicated tags of published posts in section.
// Tags differing only in case collapse to the first spelling seen.
func (s *Store) ListTags(section string) ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM posts WHERE section = ? AND draft = 0 ORDER BY seq`, strings.Trim(section, "/"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	var result []string
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			key := strings.ToLower(t)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			result = append(result, t)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i]) < strings.ToLower(result[j])
	})
	return result, nil
}

// Count returns the number of indexed records, drafts included.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

// FormatTags encodes tags as a comma-delimited string (e.g. ",go,web,").
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(strings.ReplaceAll(t, ",", " ")); t != "" {
			clean = append(clean, t)
		}
	}
	return "," + strings.Join(clean, ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
