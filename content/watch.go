package content

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches a content directory tree and calls OnChange once a burst of
// file events has settled.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	root     string
	debounce time.Duration
	onChange func()
	log      *zap.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	closed   bool
}

// NewWatcher creates a Watcher over root. onChange runs on the watcher
// goroutine, never concurrently with itself.
func NewWatcher(root string, debounce time.Duration, onChange func(), log *zap.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &Watcher{
		watcher:  w,
		root:     root,
		debounce: debounce,
		onChange: onChange,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// ErrWatcherClosed is returned when starting a Watcher that was stopped or
// failed to start.
var ErrWatcherClosed = errors.New("content: watcher closed")

// Start registers every directory under root and begins delivering changes.
// It does not block. If registration fails the Watcher is closed.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	if w.running {
		return nil
	}

	if err := w.addTree(w.root); err != nil {
		w.closed = true
		w.closeNotify()
		return err
	}
	w.running = true
	w.log.Info("watching content", zap.String("root", w.root))
	go w.run(ctx)
	return nil
}

// Stop ends the watch loop, waits for it to exit and releases the watch.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	w.closeNotify()
}

func (w *Watcher) closeNotify() {
	if err := w.watcher.Close(); err != nil {
		w.log.Error("close content watcher", zap.Error(err))
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				// fsnotify is not recursive; pick up new subdirectories.
				if err := w.addTree(ev.Name); err != nil {
					w.log.Debug("watch new path", zap.String("path", ev.Name), zap.Error(err))
				}
			}
			if !relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("content watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			w.onChange()
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	ext := filepath.Ext(base)
	// Directory renames and removals carry no extension.
	return ext == "" || strings.EqualFold(ext, ".md")
}
