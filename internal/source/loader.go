package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JonMunkholm/episodes/internal/episode"
	"github.com/JonMunkholm/episodes/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Summary describes what one source contributed to a load.
type Summary struct {
	Source   Source `json:"source"`
	Episodes int    `json:"episodes"`
}

// Result is a completed load: the merged dataset and its warnings.
type Result struct {
	ID       uuid.UUID
	Episodes []episode.Episode
	Warnings []episode.Warning
	Sources  []Summary
	LoadedAt time.Time
	Duration time.Duration
}

// document is the shape every source returns.
type document struct {
	Episodes *[]episode.Episode `json:"episodes"`
}

// Loader fetches, merges, and validates episode sources.
type Loader struct {
	fetchers Mux
	now      func() time.Time
	limit    int
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithClock overrides the time source used for load timestamps and the
// future-date check.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) { l.now = now }
}

// WithConcurrency caps the number of sources fetched at once. Zero or less
// fetches every source in parallel.
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) { l.limit = n }
}

// NewLoader creates a Loader that dispatches sources through fetchers.
func NewLoader(fetchers Mux, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetchers: fetchers,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load retrieves every source concurrently and returns the merged,
// validated dataset. The first fetch failure cancels the rest and is
// returned; no document is decoded unless all fetches succeeded.
func (l *Loader) Load(ctx context.Context, sources []Source) (*Result, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	id := uuid.New()
	start := l.now()
	logger := logging.WithFields(ctx, "load_id", id.String())
	logger.Info("load started", "sources", len(sources))

	bodies := make([][]byte, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	if l.limit > 0 {
		g.SetLimit(l.limit)
	}
	for i, src := range sources {
		g.Go(func() error {
			body, err := l.fetchers.fetch(gctx, src)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Label(), err)
			}
			bodies[i] = body
			logger.Debug("source fetched", "source", src.Label(), "bytes", len(body))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("load failed", "error", err)
		return nil, err
	}

	result := &Result{
		ID:      id,
		Sources: make([]Summary, len(sources)),
	}
	for i, src := range sources {
		episodes, err := decode(src, bodies[i])
		if err != nil {
			logger.Error("load failed", "error", err)
			return nil, fmt.Errorf("source %s: %w", src.Label(), err)
		}
		result.Episodes = append(result.Episodes, episodes...)
		result.Sources[i] = Summary{Source: src, Episodes: len(episodes)}
	}

	result.LoadedAt = l.now()
	result.Duration = result.LoadedAt.Sub(start)
	result.Warnings = episode.Validate(result.Episodes, result.LoadedAt)

	for _, w := range result.Warnings {
		logger.Warn("data quality", "warning", w.String())
	}
	logger.Info("load completed",
		"episodes", len(result.Episodes),
		"warnings", len(result.Warnings),
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

// utf8BOM is stripped from documents saved by Windows editors.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func decode(src Source, body []byte) ([]episode.Episode, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(body, utf8BOM)))
	if err := dec.Decode(&doc); err != nil {
		return nil, &DecodeError{Source: src.Location, Err: err}
	}
	if doc.Episodes == nil {
		return nil, &DecodeError{Source: src.Location, Err: errMissingEpisodes}
	}
	return *doc.Episodes, nil
}
