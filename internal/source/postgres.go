package source

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
)

// documentQuery reads one stored episode document. The table is read-only
// from the explorer's point of view:
//
//	CREATE TABLE episode_sources (
//	    name     text PRIMARY KEY,
//	    document jsonb NOT NULL
//	);
const documentQuery = `SELECT document::text FROM episode_sources WHERE name = $1`

// RowQuerier is the subset of *pgxpool.Pool the Postgres fetcher needs.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresFetcher reads documents stored in the episode_sources table.
// Locations look like "postgres:<name>".
type PostgresFetcher struct {
	db RowQuerier
}

// NewPostgresFetcher creates a fetcher backed by db (usually a pgxpool.Pool).
func NewPostgresFetcher(db RowQuerier) *PostgresFetcher {
	return &PostgresFetcher{db: db}
}

// Fetch implements Fetcher.
func (f *PostgresFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	name := strings.TrimSpace(strings.TrimPrefix(location, "postgres:"))
	if name == "" {
		return nil, &FetchError{Source: location, Status: http.StatusBadRequest}
	}

	var doc string
	err := f.db.QueryRow(ctx, documentQuery, name).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &FetchError{Source: location, Status: http.StatusNotFound, Err: err}
	}
	if err != nil {
		return nil, &FetchError{Source: location, Err: err}
	}
	return []byte(doc), nil
}
