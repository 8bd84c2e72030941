package vault

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher keeps a cached tag index that follows filesystem changes, so
// chat commands that surface tags don't rescan the vault on every call.
type Watcher struct {
	vault *Vault

	mu   sync.RWMutex
	tags map[string]int

	// pollInterval is the rescan cadence when fsnotify is unavailable.
	pollInterval time.Duration
}

// NewWatcher builds the initial index and returns a watcher. Call Watch
// to keep it fresh.
func NewWatcher(v *Vault) (*Watcher, error) {
	w := &Watcher{vault: v, pollInterval: 30 * time.Second}
	if err := w.rebuild(); err != nil {
		return nil, err
	}
	return w, nil
}

// Tags returns the cached tag → count index.
func (w *Watcher) Tags() map[string]int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make(map[string]int, len(w.tags))
	for k, v := range w.tags {
		out[k] = v
	}
	return out
}

// Watch follows vault changes until ctx is done, rebuilding the index
// whenever a markdown file is created, written, renamed, or removed.
// Falls back to periodic rescans when fsnotify is unavailable.
func (w *Watcher) Watch(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("fsnotify unavailable, polling vault instead", "error", err)
		w.poll(ctx)
		return
	}
	defer watcher.Close()

	// fsnotify does not recurse: watch the root and every subdirectory.
	if err := w.addDirs(watcher); err != nil {
		slog.Warn("could not watch vault, polling instead", "error", err)
		w.poll(ctx)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				// New directories need their own watch before notes
				// inside them produce events.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
					continue
				}
			}
			if !strings.HasSuffix(event.Name, ".md") {
				continue
			}
			if err := w.rebuild(); err != nil {
				slog.Warn("vault reindex failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Debug("vault watch error", "error", err)
		}
	}
}

func (w *Watcher) addDirs(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(w.vault.Root(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) poll(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.rebuild(); err != nil {
				slog.Warn("vault reindex failed", "error", err)
			}
		}
	}
}

func (w *Watcher) rebuild() error {
	tags, err := w.vault.Tags()
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.tags = tags
	w.mu.Unlock()
	return nil
}
