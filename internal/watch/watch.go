// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch reruns an action when watched documents change on disk.
// Changes are debounced, and a write that leaves the content unchanged
// does not trigger the action.
package watch

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long to wait for more changes before acting.
const DefaultDebounce = 300 * time.Millisecond

// Watcher tracks a fixed set of files.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	// files maps absolute paths to the name the caller used.
	files  map[string]string
	hashes map[string][sha256.Size]byte
}

// New watches files. Their parent directories are watched so files that
// editors replace by rename are still seen. A debounce of zero uses
// DefaultDebounce; a nil logger uses slog.Default.
func New(files []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		logger:   logger,
		files:    make(map[string]string),
		hashes:   make(map[string][sha256.Size]byte),
	}

	dirs := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolving %s: %w", f, err)
		}
		w.files[abs] = f
		if sum, ok := hashFile(abs); ok {
			w.hashes[abs] = sum
		}
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		logger.Debug("watching directory", "path", dir)
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run calls fn with the caller's name for each changed file until ctx is
// done. Files changed in the same debounce window are reported in sorted
// order.
func (w *Watcher) Run(ctx context.Context, fn func(name string)) error {
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	pending := map[string]bool{}
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if _, tracked := w.files[event.Name]; !tracked {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending[event.Name] = true
				w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			for _, path := range w.changed(pending) {
				fn(w.files[path])
			}
			clear(pending)
		}
	}
}

// changed returns the pending paths whose content differs from the last
// seen content, and records the new content.
func (w *Watcher) changed(pending map[string]bool) []string {
	var out []string
	for path := range pending {
		sum, ok := hashFile(path)
		if !ok {
			continue
		}
		if old, seen := w.hashes[path]; seen && old == sum {
			continue
		}
		w.hashes[path] = sum
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

func hashFile(path string) ([sha256.Size]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [sha256.Size]byte{}, false
	}
	return sha256.Sum256(data), true
}
