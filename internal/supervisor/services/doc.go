// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package services provides suture.Service implementations for UsageLens.

HTTPServerService wraps an *http.Server: ListenAndServe runs in a goroutine
and context cancellation triggers Shutdown with a bounded timeout.

DatasetWatcher watches the dataset CSV with fsnotify. The table is loaded
once at startup and never reloaded, so a change on disk only marks the
served data as stale: a warning is logged, the dataset_stale gauge is set
and /api/health reports "degraded". A watcher error returns from Serve so
the supervisor restarts it.
*/
package services
