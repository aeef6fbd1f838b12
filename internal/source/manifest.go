package source

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the sources file format:
//
//	sources:
//	  - name: classic
//	    location: https://example.org/episodes/classic.json
//	  - name: specials
//	    location: postgres:specials
type Manifest struct {
	Sources []Source `yaml:"sources"`
}

// LoadManifest reads and checks a sources file.
func LoadManifest(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest decodes a sources manifest. Every entry needs a location;
// missing names default to the location's last path element.
func ParseManifest(data []byte) ([]Source, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}

	var errs []string
	out := make([]Source, 0, len(m.Sources))
	for i, src := range m.Sources {
		src.Location = strings.TrimSpace(src.Location)
		if src.Location == "" {
			errs = append(errs, fmt.Sprintf("entry %d: location is required", i+1))
			continue
		}
		if src.Name == "" {
			src.Name = defaultName(src.Location)
		}
		out = append(out, src)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid sources file:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return out, nil
}

// NeedsDatabase reports whether any source is stored in Postgres.
func NeedsDatabase(sources []Source) bool {
	for _, s := range sources {
		if s.Scheme() == SchemePostgres {
			return true
		}
	}
	return false
}
