// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/tomtom215/usagelens/internal/logging"
	"github.com/tomtom215/usagelens/internal/metrics"
)

// staleOps are the events that change the file's content or identity.
const staleOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// DatasetWatcher marks the loaded dataset stale when its CSV changes on disk.
// It satisfies api.StalenessReporter.
type DatasetWatcher struct {
	path  string
	stale atomic.Bool
	name  string
}

// NewDatasetWatcher watches path.
func NewDatasetWatcher(path string) *DatasetWatcher {
	return &DatasetWatcher{path: filepath.Clean(path), name: "dataset-watcher"}
}

// Stale reports whether the file changed since startup. It never resets.
func (w *DatasetWatcher) Stale() bool {
	return w.stale.Load()
}

// Serve implements suture.Service. The parent directory is watched so that
// editors which replace the file by rename are still observed.
func (w *DatasetWatcher) Serve(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	base := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher event channel closed")
			}
			if filepath.Base(event.Name) != base || !event.Has(staleOps) {
				continue
			}
			w.markStale(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			return fmt.Errorf("watch %s: %w", w.path, err)
		}
	}
}

func (w *DatasetWatcher) markStale(event fsnotify.Event) {
	if !w.stale.CompareAndSwap(false, true) {
		return
	}
	metrics.MarkDatasetStale()
	logging.Warn().
		Str("path", w.path).
		Str("op", event.Op.String()).
		Msg("Dataset changed on disk; restart to load the new data")
}

// String names the service in supervisor events.
func (w *DatasetWatcher) String() string {
	return w.name
}
