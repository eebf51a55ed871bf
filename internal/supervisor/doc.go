// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package supervisor provides process supervision for UsageLens using suture v4.

The tree has two layers so a failing dataset watcher never takes the HTTP
server down with it:

	RootSupervisor ("usagelens")
	├── DataSupervisor ("data-layer")
	│   └── DatasetWatcher (if dataset.watch)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (service start, failure, backoff) are logged through
sutureslog into the zerolog-backed slog adapter.

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(),
	    supervisor.TreeConfigFrom(&cfg.Supervisor))
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewDatasetWatcher(cfg.Dataset.Path))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Supervisor.ShutdownTimeout))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

# Failure Handling

Each failure increments a counter that decays over FailureDecay seconds.
Above FailureThreshold the supervisor waits FailureBackoff before the next
restart. Zero TreeConfig fields take the DefaultTreeConfig values, which are
suture's own defaults.
*/
package supervisor
