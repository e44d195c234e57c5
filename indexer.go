package pensieve

import (
	"os"

	"go.uber.org/zap"

	"github.com/eringen/pensieve/content"
)

// Reindex rebuilds the index from ContentDir and drops cached posts. Files
// that fail to parse are logged and skipped. It returns the number of
// records indexed.
func (a *App) Reindex() (int, error) {
	n, skipped, err := BuildIndex(a.Store, a.Config.ContentDir)
	for _, s := range skipped {
		a.log.Warn("skipped content file", zap.Error(s))
	}
	if err != nil {
		return 0, err
	}
	if a.Cache != nil {
		a.Cache.Invalidate()
	}
	a.log.Info("indexed content",
		zap.String("dir", a.Config.ContentDir),
		zap.Int("records", n),
		zap.Int("skipped", len(skipped)),
	)
	return n, nil
}

// BuildIndex scans dir and replaces the contents of store with what it finds.
// A missing directory yields an empty index.
func BuildIndex(store *Store, dir string) (int, []error, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil, store.Replace(nil)
	}
	records, skipped := content.Scan(os.DirFS(dir))
	if err := store.Replace(records); err != nil {
		return 0, skipped, err
	}
	return len(records), skipped, nil
}
