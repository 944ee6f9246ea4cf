// Package watcher keeps the index in sync with a directory on disk.
// Files created or edited under the watched directory are ingested;
// removed files are dropped from the index.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/paperchat-ai/paperchat/internal/core/ports/driving"
	"github.com/paperchat-ai/paperchat/internal/logger"
)

// DefaultDebounce coalesces bursts of write events for one file.
const DefaultDebounce = 500 * time.Millisecond

// Watcher mirrors a directory into the document index.
type Watcher struct {
	ingest   driving.IngestService
	dir      string
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long to wait after the last write event
// before a file is ingested.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a watcher over dir. The directory must exist.
func New(ingest driving.IngestService, dir string, opts ...Option) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch directory: %s is not a directory", dir)
	}

	w := &Watcher{
		ingest:   ingest,
		dir:      dir,
		debounce: DefaultDebounce,
		pending:  make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run ingests the directory's current contents, then watches for
// changes until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.ingestExisting(ctx); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("Watching %s for changes", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// ingestExisting indexes files already present when the watcher
// starts, so a restart never misses documents.
func (w *Watcher) ingestExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read watch directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || isHidden(entry.Name()) {
			continue
		}
		w.ingestFile(ctx, filepath.Join(w.dir, entry.Name()))
	}
	return nil
}

// handleEvent maps one filesystem event to an index operation.
// Creates and writes are debounced before ingestion; removes and
// renames delete the source immediately.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if isHidden(name) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
			return
		}
		w.scheduleIngest(ctx, event.Name)

	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		w.cancelPending(event.Name)
		if removed, err := w.ingest.DeleteSource(ctx, name); err != nil {
			logger.Warn("Failed to delete %s from index: %v", name, err)
		} else if removed > 0 {
			logger.Info("Removed %s from index (%d chunks)", name, removed)
		}
	}
}

// scheduleIngest (re)arms the debounce timer for a file. Editors
// often emit several writes per save; only the last one matters.
func (w *Watcher) scheduleIngest(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ingestFile(ctx, path)
	})
}

func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
		delete(w.pending, path)
	}
}

// ingestFile reads and indexes one file.
func (w *Watcher) ingestFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Failed to read %s: %v", path, err)
		return
	}

	name := filepath.Base(path)
	result, err := w.ingest.Ingest(ctx, driving.IngestRequest{
		SourceName: name,
		FileBytes:  data,
	})
	if err != nil {
		logger.Warn("Failed to ingest %s: %v", name, err)
		return
	}
	if result.Unchanged {
		logger.Debug("Unchanged: %s", name)
		return
	}
	logger.Info("Ingested %s (%d chunks)", name, result.ChunksIndexed)
}

// isHidden reports whether a file should be ignored. Dotfiles and
// common editor temp files never reach the index.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp")
}
