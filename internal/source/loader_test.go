package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// staticFetcher serves documents from a map keyed by location.
type staticFetcher map[string]string

func (s staticFetcher) Fetch(_ context.Context, location string) ([]byte, error) {
	body, ok := s[location]
	if !ok {
		return nil, &FetchError{Source: location, Status: http.StatusNotFound}
	}
	return []byte(body), nil
}

func TestLoader_ConcatenatesInSourceOrder(t *testing.T) {
	fetch := staticFetcher{
		"a.json": `{"episodes": [{"rank": 1, "title": "A1"}, {"rank": 2, "title": "A2"}]}`,
		"b.json": `{"episodes": [{"rank": 3, "title": "B1"}]}`,
		"c.json": `{"episodes": []}`,
	}
	loader := NewLoader(Mux{SchemeFile: fetch}, WithClock(fixedClock))

	res, err := loader.Load(context.Background(), FromLocations([]string{"b.json", "a.json", "c.json"}))
	require.NoError(t, err)

	var got []string
	for _, ep := range res.Episodes {
		got = append(got, ep.Title.Text())
	}
	require.Equal(t, []string{"B1", "A1", "A2"}, got)
	require.Len(t, res.Sources, 3)
	require.Equal(t, 1, res.Sources[0].Episodes)
	require.Equal(t, 2, res.Sources[1].Episodes)
	require.Equal(t, 0, res.Sources[2].Episodes)
	require.Equal(t, fixedNow, res.LoadedAt)
	require.NotEqual(t, uuid.Nil, res.ID)
}

func TestLoader_ConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	fetch := FetcherFunc(func(ctx context.Context, location string) ([]byte, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return []byte(`{"episodes": []}`), nil
	})
	loader := NewLoader(Mux{SchemeFile: fetch}, WithConcurrency(2))

	_, err := loader.Load(context.Background(), FromLocations([]string{"a", "b", "c", "d", "e"}))
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestLoader_SkipsByteOrderMark(t *testing.T) {
	fetch := staticFetcher{"bom.json": "\xEF\xBB\xBF" + `{"episodes": [{"rank": 1, "title": "Rose"}]}`}
	loader := NewLoader(Mux{SchemeFile: fetch}, WithClock(fixedClock))

	res, err := loader.Load(context.Background(), FromLocations([]string{"bom.json"}))
	require.NoError(t, err)
	require.Len(t, res.Episodes, 1)
	assert.Equal(t, "Rose", res.Episodes[0].Title.Text())
}

func TestLoader_RunsValidation(t *testing.T) {
	fetch := staticFetcher{
		"a.json": `{"episodes": [{"rank": 5, "title": "Blink", "era": "Modern", "broadcast_date": "2007"}]}`,
		"b.json": `{"episodes": [{"rank": 5, "title": "Midnight", "era": "Modern", "broadcast_date": "2008"}]}`,
	}
	loader := NewLoader(Mux{SchemeFile: fetch}, WithClock(fixedClock))

	res, err := loader.Load(context.Background(), FromLocations([]string{"a.json", "b.json"}))
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	require.Equal(t, 1, res.Warnings[0].Index)
	require.Contains(t, res.Warnings[0].String(), "duplicate rank 5")
}

func TestLoader_FailsFastOnFetchError(t *testing.T) {
	fetch := FetcherFunc(func(ctx context.Context, location string) ([]byte, error) {
		if location == "broken.json" {
			return nil, &FetchError{Source: location, Status: http.StatusServiceUnavailable}
		}
		return []byte(`{"episodes": []}`), nil
	})
	loader := NewLoader(Mux{SchemeFile: fetch})

	_, err := loader.Load(context.Background(), []Source{
		{Name: "good", Location: "good.json"},
		{Name: "broken", Location: "broken.json"},
	})
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe), "error %v is not a FetchError", err)
	require.Equal(t, http.StatusServiceUnavailable, fe.Status)
	require.Contains(t, err.Error(), "broken")
	require.Contains(t, err.Error(), "503")
}

func TestLoader_CancelsRemainingFetches(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	fetch := FetcherFunc(func(ctx context.Context, location string) ([]byte, error) {
		if location == "fail" {
			return nil, &FetchError{Source: location, Status: http.StatusNotFound}
		}
		select {
		case <-ctx.Done():
			return nil, &FetchError{Source: location, Err: ctx.Err()}
		case <-release:
			return []byte(`{"episodes": []}`), nil
		}
	})
	loader := NewLoader(Mux{SchemeFile: fetch})

	done := make(chan error, 1)
	go func() {
		_, err := loader.Load(context.Background(), FromLocations([]string{"slow", "fail"}))
		done <- err
	}()

	select {
	case err := <-done:
		var fe *FetchError
		require.True(t, errors.As(err, &fe))
		require.Equal(t, http.StatusNotFound, fe.Status)
	case <-time.After(5 * time.Second):
		t.Fatal("Load did not return after a fetch failure")
	}
}

func TestLoader_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"episodes": [`, "invalid json"},
		{"missing episodes", `{"items": []}`, `missing "episodes" array`},
		{"null episodes", `{"episodes": null}`, `missing "episodes" array`},
		{"episodes not an array", `{"episodes": {"rank": 1}}`, "invalid json"},
		{"not json at all", `<html>oops</html>`, "invalid json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetch := staticFetcher{"good.json": `{"episodes": []}`, "bad.json": tt.body}
			loader := NewLoader(Mux{SchemeFile: fetch})

			_, err := loader.Load(context.Background(), FromLocations([]string{"good.json", "bad.json"}))
			require.Error(t, err)

			var de *DecodeError
			require.True(t, errors.As(err, &de), "error %v is not a DecodeError", err)
			require.Equal(t, "bad.json", de.Source)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoader_NoSources(t *testing.T) {
	_, err := NewLoader(Mux{}).Load(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoSources)
}

func TestLoader_UnknownScheme(t *testing.T) {
	loader := NewLoader(Mux{SchemeFile: staticFetcher{}})
	_, err := loader.Load(context.Background(), FromLocations([]string{"https://example.org/a.json"}))
	require.Error(t, err)
	require.Contains(t, err.Error(), "no fetcher configured for http sources")
}

// ----------------------------------------------------------------------------
// HTTPFetcher
// ----------------------------------------------------------------------------

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.json":
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"episodes": [{"title": "Rose"}]}`)
		case "/teapot.json":
			w.WriteHeader(http.StatusTeapot)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5*time.Second, "")

	body, err := f.Fetch(context.Background(), srv.URL+"/ok.json")
	require.NoError(t, err)
	require.Contains(t, string(body), "Rose")

	_, err = f.Fetch(context.Background(), srv.URL+"/missing.json")
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, http.StatusNotFound, fe.Status)
	require.Contains(t, fe.Error(), "/missing.json")

	_, err = f.Fetch(context.Background(), srv.URL+"/teapot.json")
	require.True(t, errors.As(err, &fe))
	require.Equal(t, http.StatusTeapot, fe.Status)
}

func TestHTTPFetcher_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPFetcher(time.Second, "test").Fetch(context.Background(), url+"/a.json")
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Zero(t, fe.Status)
	require.Error(t, fe.Unwrap())
}

func TestLoader_HTTPEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"episodes": [{"rank": 1, "title": %q}]}`, strings.TrimPrefix(r.URL.Path, "/"))
	}))
	defer srv.Close()

	loader := NewLoader(Mux{SchemeHTTP: NewHTTPFetcher(0, "")}, WithClock(fixedClock))
	res, err := loader.Load(context.Background(), FromLocations([]string{srv.URL + "/first", srv.URL + "/second"}))
	require.NoError(t, err)
	require.Len(t, res.Episodes, 2)
	require.Equal(t, "first", res.Episodes[0].Title.Text())
	require.Equal(t, "second", res.Episodes[1].Title.Text())
	require.Equal(t, "first", res.Sources[0].Source.Name)
}

// ----------------------------------------------------------------------------
// FileFetcher
// ----------------------------------------------------------------------------

func TestFileFetcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modern.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"episodes": []}`), 0o644))

	body, err := FileFetcher{}.Fetch(context.Background(), path)
	require.NoError(t, err)
	require.JSONEq(t, `{"episodes": []}`, string(body))

	body, err = FileFetcher{}.Fetch(context.Background(), "file://"+path)
	require.NoError(t, err)
	require.NotEmpty(t, body)

	_, err = FileFetcher{}.Fetch(context.Background(), filepath.Join(dir, "missing.json"))
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, http.StatusNotFound, fe.Status)
}

// ----------------------------------------------------------------------------
// PostgresFetcher
// ----------------------------------------------------------------------------

type fakeRow struct {
	doc string
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.doc
	return nil
}

type fakeQuerier struct {
	docs  map[string]string
	calls []string
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	name := args[0].(string)
	q.calls = append(q.calls, name)
	doc, ok := q.docs[name]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{doc: doc}
}

func TestPostgresFetcher(t *testing.T) {
	q := &fakeQuerier{docs: map[string]string{"specials": `{"episodes": [{"title": "The Five Doctors"}]}`}}
	f := NewPostgresFetcher(q)

	body, err := f.Fetch(context.Background(), "postgres:specials")
	require.NoError(t, err)
	require.Contains(t, string(body), "The Five Doctors")
	require.Equal(t, []string{"specials"}, q.calls)

	_, err = f.Fetch(context.Background(), "postgres:lost")
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, http.StatusNotFound, fe.Status)

	_, err = f.Fetch(context.Background(), "postgres:")
	require.True(t, errors.As(err, &fe))
	require.Equal(t, http.StatusBadRequest, fe.Status)
}

func TestPostgresFetcher_QueryError(t *testing.T) {
	q := queryFunc(func() pgx.Row { return fakeRow{err: errors.New("connection refused")} })
	_, err := NewPostgresFetcher(q).Fetch(context.Background(), "postgres:classic")
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	require.Zero(t, fe.Status)
	require.Contains(t, err.Error(), "connection refused")
}

type queryFunc func() pgx.Row

func (f queryFunc) QueryRow(context.Context, string, ...any) pgx.Row { return f() }
