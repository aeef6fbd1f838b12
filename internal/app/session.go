package app

import (
	"context"
	"sync"
	"time"

	"github.com/JonMunkholm/episodes/internal/episode"
	"github.com/JonMunkholm/episodes/internal/source"
	"github.com/JonMunkholm/episodes/internal/view"
	"github.com/google/uuid"
)

// Loader produces a dataset from a list of sources.
type Loader interface {
	Load(ctx context.Context, sources []source.Source) (*source.Result, error)
}

// Snapshot is a consistent copy of everything a presenter shows.
type Snapshot struct {
	State    view.State
	Loading  bool
	Failure  *UserMessage // set when the last load failed; the table is hidden
	Warnings []episode.Warning
	Sources  []source.Summary
	LoadID   uuid.UUID
	LoadedAt time.Time
}

// Loaded reports whether a dataset is installed and should be shown.
func (s Snapshot) Loaded() bool {
	return s.Failure == nil && !s.LoadedAt.IsZero()
}

// Session owns the explorer state for one process. Every transition runs
// under a mutex, so readers only ever observe whole snapshots.
type Session struct {
	loader  Loader
	sources []source.Source

	loadMu sync.Mutex // serializes loads

	mu       sync.Mutex
	state    view.State
	loading  bool
	failure  *UserMessage
	warnings []episode.Warning
	summary  []source.Summary
	loadID   uuid.UUID
	loadedAt time.Time
}

// NewSession creates a session over sources. Nothing is fetched until Load.
func NewSession(loader Loader, sources []source.Source) *Session {
	return &Session{
		loader:  loader,
		sources: sources,
		state:   view.New(nil),
	}
}

// Sources returns the configured source list.
func (s *Session) Sources() []source.Source {
	return s.sources
}

// Load fetches every source and installs the merged dataset, keeping the
// current filter and sort. On failure the dataset is cleared and the mapped
// error is recorded. The loading flag is cleared on every exit path.
func (s *Session) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	res, err := s.loader.Load(ctx, s.sources)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		msg := MapError(err)
		s.failure = &msg
		s.state = s.state.WithDataset(nil)
		s.warnings = nil
		s.summary = nil
		return err
	}

	s.failure = nil
	s.state = s.state.WithDataset(res.Episodes)
	s.warnings = res.Warnings
	s.summary = res.Sources
	s.loadID = res.ID
	s.loadedAt = res.LoadedAt
	return nil
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// SetFilter replaces the search text.
func (s *Session) SetFilter(text string) view.State {
	return s.update(func(st view.State) view.State { return st.WithFilter(text) })
}

// ActivateHeader toggles the sort on a column header.
func (s *Session) ActivateHeader(f view.Field) view.State {
	return s.update(func(st view.State) view.State { return st.ActivateHeader(f) })
}

// Navigate moves the row focus one step.
func (s *Session) Navigate(dir view.Direction) view.State {
	return s.update(func(st view.State) view.State { return st.Navigate(dir) })
}

func (s *Session) update(fn func(view.State) view.State) view.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:    s.state,
		Loading:  s.loading,
		Failure:  s.failure,
		Warnings: s.warnings,
		Sources:  s.summary,
		LoadID:   s.loadID,
		LoadedAt: s.loadedAt,
	}
}
