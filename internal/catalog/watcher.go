package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last file event
// before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads a Store when its catalog file, or any document of a
// Markdown catalog directory, changes on disk.
type Watcher struct {
	store    *Store
	matches  func(name string) bool
	logger   *slog.Logger
	debounce time.Duration
	fs       *fsnotify.Watcher
	reloaded chan error
}

// NewWatcher watches the directory of the store's catalog file, or the
// document directory of a Markdown catalog. Editors that replace the file on
// save show up as Create or Rename events there.
func NewWatcher(store *Store, logger *slog.Logger, debounce time.Duration) (*Watcher, error) {
	if store.Path() == "" {
		return nil, fmt.Errorf("watch catalog: store has no file")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	path := filepath.Clean(store.Path())
	dir := filepath.Dir(path)
	matches := func(name string) bool { return filepath.Clean(name) == path }
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		dir = markdownRoot(path)
		matches = isMarkdown
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		store:    store,
		matches:  matches,
		logger:   logger,
		debounce: debounce,
		fs:       fsw,
		reloaded: make(chan error, 1),
	}, nil
}

// Reloaded delivers the result of each reload. Results are dropped when
// nobody is receiving.
func (w *Watcher) Reloaded() <-chan error {
	return w.reloaded
}

// Run processes file events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.matches(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			w.logger.Debug("catalog file changed", "file", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)

		case <-timer.C:
			err := w.store.Reload()
			if err != nil {
				w.logger.Error("catalog reload failed, keeping previous snapshot", "error", err)
			}
			select {
			case w.reloaded <- err:
			default:
			}
		}
	}
}
