package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/episodes/internal/episode"
	"github.com/JonMunkholm/episodes/internal/source"
	"github.com/JonMunkholm/episodes/internal/view"
	"github.com/google/uuid"
)

// stubLoader returns a canned result and records the loading flag it saw.
type stubLoader struct {
	session *Session
	result  *source.Result
	err     error

	mu          sync.Mutex
	sawLoading  bool
	loadedCount int
}

func (l *stubLoader) Load(ctx context.Context, _ []source.Source) (*source.Result, error) {
	l.mu.Lock()
	l.loadedCount++
	l.mu.Unlock()
	if l.session != nil {
		l.sawLoading = l.session.Snapshot().Loading
	}
	return l.result, l.err
}

func sampleResult() *source.Result {
	return &source.Result{
		ID: uuid.New(),
		Episodes: []episode.Episode{
			{Rank: episode.Number(2), Title: episode.String("Blink")},
			{Rank: episode.Number(1), Title: episode.String("Rose"),
				Doctor: &episode.Person{Actor: episode.String("Christopher Eccleston")}},
			{Rank: episode.Number(3), Title: episode.String("Midnight")},
		},
		Warnings: []episode.Warning{{Index: 0, Title: "Blink", Field: "era", Message: "missing required field"}},
		LoadedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func visibleTitles(st view.State) []string {
	var out []string
	for _, ep := range st.Visible() {
		out = append(out, ep.Title.Text())
	}
	return out
}

func TestSession_LoadSuccess(t *testing.T) {
	loader := &stubLoader{result: sampleResult()}
	s := NewSession(loader, source.FromLocations([]string{"a.json"}))
	loader.session = s

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	snap := s.Snapshot()
	if !loader.sawLoading {
		t.Error("loading flag was not set while fetching")
	}
	if snap.Loading {
		t.Error("loading flag still set after successful load")
	}
	if !snap.Loaded() {
		t.Error("Loaded() = false after successful load")
	}
	if got := visibleTitles(snap.State); len(got) != 3 || got[0] != "Rose" {
		t.Errorf("visible = %v, want rank order starting with Rose", got)
	}
	if len(snap.Warnings) != 1 {
		t.Errorf("warnings = %d, want 1", len(snap.Warnings))
	}
}

func TestSession_LoadFailure(t *testing.T) {
	loader := &stubLoader{err: &source.FetchError{Source: "a.json", Status: 500}}
	s := NewSession(loader, source.FromLocations([]string{"a.json"}))
	loader.session = s

	err := s.Load(context.Background())
	var fe *source.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Load() error = %v, want FetchError", err)
	}

	snap := s.Snapshot()
	if !loader.sawLoading {
		t.Error("loading flag was not set while fetching")
	}
	if snap.Loading {
		t.Error("loading flag still set after failed load")
	}
	if snap.Failure == nil || snap.Failure.Code != "SRC005" {
		t.Fatalf("Failure = %+v, want SRC005", snap.Failure)
	}
	if snap.Loaded() {
		t.Error("Loaded() = true after failed load")
	}
	if n := len(snap.State.Visible()); n != 0 {
		t.Errorf("visible = %d rows after failure, want 0", n)
	}
}

func TestSession_FailureThenRecovery(t *testing.T) {
	loader := &stubLoader{err: errors.New("connection refused")}
	s := NewSession(loader, nil)

	_ = s.Load(context.Background())
	if s.Snapshot().Failure == nil {
		t.Fatal("expected failure")
	}

	loader.err = nil
	loader.result = sampleResult()
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap := s.Snapshot(); snap.Failure != nil || len(snap.State.Visible()) != 3 {
		t.Errorf("snapshot after recovery = failure %+v, %d rows", snap.Failure, len(snap.State.Visible()))
	}
}

func TestSession_ReloadKeepsFilterAndSort(t *testing.T) {
	loader := &stubLoader{result: sampleResult()}
	s := NewSession(loader, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	s.SetFilter("i")
	s.ActivateHeader(view.FieldTitle)
	s.Navigate(view.Down)

	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	st := s.Snapshot().State
	if st.Filter() != "i" {
		t.Errorf("Filter() = %q, want %q", st.Filter(), "i")
	}
	if st.Sort().Field != view.FieldTitle {
		t.Errorf("Sort().Field = %q, want title", st.Sort().Field)
	}
	if st.Focus() != view.NoFocus {
		t.Errorf("Focus() = %d after reload, want %d", st.Focus(), view.NoFocus)
	}
}

func TestSession_Transitions(t *testing.T) {
	s := NewSession(&stubLoader{result: sampleResult()}, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	st := s.SetFilter("rose")
	if got := visibleTitles(st); len(got) != 1 || got[0] != "Rose" {
		t.Errorf("SetFilter visible = %v", got)
	}

	s.SetFilter("")
	st = s.ActivateHeader(view.FieldRank)
	if st.Sort().Ascending {
		t.Error("activating the active rank header should flip to descending")
	}
	if got := visibleTitles(st); got[0] != "Midnight" {
		t.Errorf("descending rank visible = %v", got)
	}

	st = s.Navigate(view.Down)
	st = s.Navigate(view.Down)
	if st.Focus() != 1 {
		t.Errorf("Focus() = %d, want 1", st.Focus())
	}
	if s.Snapshot().State.Focus() != 1 {
		t.Error("snapshot does not reflect the last transition")
	}
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := NewSession(&stubLoader{result: sampleResult()}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 4 {
			case 0:
				_ = s.Load(context.Background())
			case 1:
				s.SetFilter("b")
			case 2:
				s.Navigate(view.Down)
			default:
				_ = s.Snapshot()
			}
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot()
	if snap.Loading {
		t.Error("loading flag left set")
	}
	if f := snap.State.Focus(); f < view.NoFocus || f >= len(snap.State.Visible()) {
		t.Errorf("focus %d out of range for %d rows", f, len(snap.State.Visible()))
	}
}
