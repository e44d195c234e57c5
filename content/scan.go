package content

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Scan walks fsys and parses every markdown file. Files that cannot be read
// or parsed are reported in the second return value and left out.
func Scan(fsys fs.FS) ([]Record, []error) {
	var records []Record
	var skipped []error
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			skipped = append(skipped, err)
			return nil
		}
		if d.IsDir() {
			if p != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(path.Ext(p), ".md") {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("%s: %w", p, err))
			return nil
		}
		rec, err := ParseFrontmatter(data)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("%s: %w", p, err))
			return nil
		}
		rec.Path = p
		records = append(records, rec)
		return nil
	})
	if err != nil {
		skipped = append(skipped, err)
	}
	return records, skipped
}

// SectionOf returns the top-level directory of a record path, e.g. "posts"
// for "posts/hello/index.md". Files at the root have no section.
func SectionOf(recordPath string) string {
	first, _, found := strings.Cut(recordPath, "/")
	if !found {
		return ""
	}
	return first
}
