// Package source retrieves episode documents and merges them into one
// dataset.
//
// A source location is resolved by scheme:
//
//	https://example.org/classic.json   HTTP GET
//	file:///data/modern.json           local file (a bare path works too)
//	postgres:specials                  row "specials" of the episode_sources table
//
// All sources of a load are fetched concurrently. The first failure aborts the
// load; documents are decoded only after every fetch succeeded, and their
// "episodes" arrays are concatenated in source-list order.
package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Scheme identifies how a source location is fetched.
type Scheme string

const (
	SchemeHTTP     Scheme = "http"
	SchemeFile     Scheme = "file"
	SchemePostgres Scheme = "postgres"
)

// Source is one configured episode document.
type Source struct {
	Name     string `yaml:"name" json:"name"`
	Location string `yaml:"location" json:"location"`
}

// Label returns the name used in logs and errors.
func (s Source) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Location
}

// Scheme classifies the source location.
func (s Source) Scheme() Scheme {
	loc := strings.TrimSpace(s.Location)
	switch {
	case strings.HasPrefix(loc, "http://"), strings.HasPrefix(loc, "https://"):
		return SchemeHTTP
	case strings.HasPrefix(loc, "postgres:") && !strings.HasPrefix(loc, "postgres://"):
		return SchemePostgres
	default:
		return SchemeFile
	}
}

// FromLocations builds sources from bare locations, naming each after its
// last path element.
func FromLocations(locations []string) []Source {
	out := make([]Source, 0, len(locations))
	for _, loc := range locations {
		loc = strings.TrimSpace(loc)
		if loc == "" {
			continue
		}
		out = append(out, Source{Name: defaultName(loc), Location: loc})
	}
	return out
}

func defaultName(loc string) string {
	if name, ok := strings.CutPrefix(loc, "postgres:"); ok {
		return name
	}
	if u, err := url.Parse(loc); err == nil && u.Path != "" {
		loc = u.Path
	}
	if i := strings.LastIndex(loc, "/"); i >= 0 && i < len(loc)-1 {
		return loc[i+1:]
	}
	return loc
}

// Fetcher retrieves the raw document at a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, location string) ([]byte, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, location string) ([]byte, error) {
	return f(ctx, location)
}

// Mux routes each source to the fetcher registered for its scheme.
type Mux map[Scheme]Fetcher

// fetch dispatches src to the fetcher for its scheme.
func (m Mux) fetch(ctx context.Context, src Source) ([]byte, error) {
	f, ok := m[src.Scheme()]
	if !ok || f == nil {
		return nil, &FetchError{
			Source: src.Label(),
			Err:    fmt.Errorf("no fetcher configured for %s sources", src.Scheme()),
		}
	}
	return f.Fetch(ctx, src.Location)
}
