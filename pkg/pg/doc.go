// Package pg provides the PostgreSQL bootstrap layer for the pipeline's
// storages: pooled connectivity via pgx/v5 with startup retries, goose
// schema migrations routed through the application logger, a health check
// closure, and error classifiers (not found, duplicate key, foreign key)
// the storage implementations branch on.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil { ... }
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil { ... }
package pg
