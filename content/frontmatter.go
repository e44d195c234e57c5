package content

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoFrontmatter is returned when a file does not start with a --- block.
var ErrNoFrontmatter = errors.New("content: missing frontmatter")

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

type frontmatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Slug        string   `yaml:"slug"`
	Draft       bool     `yaml:"draft"`
}

// ParseFrontmatter decodes the YAML block at the top of a markdown file.
// The returned Record has no Path; callers set it.
func ParseFrontmatter(data []byte) (Record, error) {
	block, err := splitFrontmatter(data)
	if err != nil {
		return Record{}, err
	}
	var fm frontmatter
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return Record{}, fmt.Errorf("content: decode frontmatter: %w", err)
	}
	var date time.Time
	if fm.Date != "" {
		date, err = ParseDate(fm.Date)
		if err != nil {
			return Record{}, err
		}
	}
	tags := make([]string, 0, len(fm.Tags))
	for _, t := range fm.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return Record{
		Draft: fm.Draft,
		Post: PostSummary{
			Title:       fm.Title,
			Description: fm.Description,
			Date:        date,
			Tags:        tags,
			Slug:        fm.Slug,
		},
	}, nil
}

// ParseDate reads a frontmatter date as a calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("content: unrecognized date %q", s)
}

func splitFrontmatter(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return nil, ErrNoFrontmatter
	}
	rest := data[len("---\n"):]
	if bytes.HasPrefix(rest, []byte("---\n")) || bytes.Equal(rest, []byte("---")) {
		return nil, nil
	}
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, ErrNoFrontmatter
	}
	return rest[:end], nil
}
