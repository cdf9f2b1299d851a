// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package supervisor runs the server's long-lived services under a suture v4
tree.

	reelmatch
	├── storage-layer
	│   ├── cache-gc           (badger value-log GC)
	│   └── vector-checkpoint  (DuckDB WAL checkpoint)
	└── api-layer
	    └── http-server

Each layer counts failures on its own, so a storage task stuck in a
restart loop backs off without restarting the HTTP server. Supervisor
events go to the zerolog pipeline through sutureslog and the slog adapter
in internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddStorageService(services.NewCacheGCService(store, interval, logger))
	tree.AddAPIService(services.NewHTTPServerService(srv, timeout, logger))
	return tree.Serve(ctx)
*/
package supervisor
