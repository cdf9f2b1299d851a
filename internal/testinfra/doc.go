// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to manage Docker containers for integration tests,
// providing realistic testing environments that closely match production.
//
// # PostgreSQL Container
//
// The PostgresContainer provides a throwaway PostgreSQL instance for the relational store:
//
//	func TestRatings(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    t.Cleanup(func() { testinfra.CleanupContainer(t, pg.Container) })
//
//	    db, err := database.Open(ctx, &config.DatabaseConfig{URL: pg.DSN, ...})
//	}
//
// # Mock Embedding Provider
//
// MockEmbeddingServer answers POST /embedding with deterministic vectors and
// records every request. It needs no Docker and is available without build tags:
//
//	srv := testinfra.NewMockEmbeddingServer(t)
//	defer srv.Close()
//	provider := embedding.NewHTTPProvider(embedding.ProviderConfig{BaseURL: srv.URL()})
//
// # Build Tags
//
// Container helpers are behind the integration build tag:
//
//	go test -tags integration ./...
package testinfra
