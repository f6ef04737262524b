package dataset

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"soundstage.systems/foleydeck/internal/livereload"
)

// Editors and upload tools write record files in bursts; wait for writes to
// settle before reloading.
const debounceWindow = 500 * time.Millisecond

// Watcher reloads datasets when their files change on disk and broadcasts
// the new identity to the reload hub.
type Watcher struct {
	store *Store
	hub   *livereload.Hub

	fsw     *fsnotify.Watcher
	watched map[string]string // absolute path -> dataset name
}

// NewWatcher builds a watcher over every dataset currently in the store.
// Parent directories are watched rather than the files themselves so
// replace-by-rename saves are still observed.
func NewWatcher(store *Store, hub *livereload.Hub) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		store:   store,
		hub:     hub,
		fsw:     fsw,
		watched: make(map[string]string),
	}

	dirs := make(map[string]struct{})
	for _, ds := range store.All() {
		abs, err := filepath.Abs(ds.Path)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.watched[abs] = ds.Name
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsw.Close()

	pending := make(map[string]time.Time)
	sweep := time.NewTicker(100 * time.Millisecond)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(evt.Name)
			if err != nil {
				continue
			}
			if _, ours := w.watched[abs]; ours {
				pending[abs] = time.Now()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Error("dataset watcher error", "error", err)

		case <-sweep.C:
			now := time.Now()
			for path, at := range pending {
				if now.Sub(at) < debounceWindow {
					continue
				}
				delete(pending, path)
				w.reload(path)
			}
		}
	}
}

func (w *Watcher) reload(path string) {
	name := w.watched[path]

	ds, changed, err := w.store.LoadFile(name, path)
	if err != nil {
		// Keep serving the previous records; a half-written file will fire
		// another event once the writer finishes.
		slog.Error("dataset reload failed", "dataset", name, "path", path, "error", err)
		return
	}
	if !changed {
		slog.Debug("dataset unchanged after write", "dataset", name)
		return
	}

	slog.Info("dataset reloaded",
		"dataset", name,
		"records", len(ds.Records),
		"fingerprint", ds.Fingerprint.String(),
	)
	w.hub.Broadcast(livereload.Event{
		Dataset:     name,
		Fingerprint: ds.Fingerprint.String(),
		ReloadedAt:  ds.LoadedAt,
	})
}
