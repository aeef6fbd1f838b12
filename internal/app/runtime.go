package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JonMunkholm/episodes/internal/config"
	"github.com/JonMunkholm/episodes/internal/source"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Runtime is the loader stack built from configuration, plus the resources
// it holds open.
type Runtime struct {
	Sources []source.Source
	Loader  *source.Loader

	pool *pgxpool.Pool
}

// Open resolves the configured sources and builds a loader for them. A
// database pool is opened only when a postgres: source is configured.
func Open(ctx context.Context, cfg config.Config) (*Runtime, error) {
	sources, err := cfg.ResolveSources()
	if err != nil {
		return nil, fmt.Errorf("resolve sources: %w", err)
	}

	fetchers := source.Mux{
		source.SchemeHTTP: source.NewHTTPFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent),
		source.SchemeFile: source.FileFetcher{},
	}

	rt := &Runtime{Sources: sources}

	if source.NeedsDatabase(sources) {
		pool, err := openPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		rt.pool = pool
		fetchers[source.SchemePostgres] = source.NewPostgresFetcher(pool)
	}

	rt.Loader = source.NewLoader(fetchers, source.WithConcurrency(cfg.Fetch.MaxConcurrent))

	labels := make([]string, len(sources))
	for i, s := range sources {
		labels[i] = s.Label()
	}
	slog.Info("sources configured", "count", len(sources), "sources", labels)
	return rt, nil
}

// Close releases the database pool, if any.
func (r *Runtime) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

func openPool(ctx context.Context, db config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(db.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(db.MaxConns)
	poolConfig.MinConns = int32(db.MinConns)
	poolConfig.MaxConnLifetime = db.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Log which database we connected to
	if u, err := url.Parse(db.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
