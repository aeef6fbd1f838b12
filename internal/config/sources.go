package config

import (
	"errors"

	"github.com/JonMunkholm/episodes/internal/source"
)

// ErrDatabaseRequired is returned when a postgres: source is configured
// without DATABASE_URL.
var ErrDatabaseRequired = errors.New("DATABASE_URL is required for postgres: sources")

// ResolveSources returns the configured source list, read either from
// EPISODE_SOURCES or from the SOURCES_FILE manifest. An empty result is not
// an error here; the loader reports it when a load is attempted.
func (c *Config) ResolveSources() ([]source.Source, error) {
	var (
		sources []source.Source
		err     error
	)
	if c.Sources.File != "" {
		sources, err = source.LoadManifest(c.Sources.File)
		if err != nil {
			return nil, err
		}
	} else {
		sources = source.FromLocations(c.Sources.Locations)
	}

	if source.NeedsDatabase(sources) && c.Database.URL == "" {
		return nil, ErrDatabaseRequired
	}
	return sources, nil
}
