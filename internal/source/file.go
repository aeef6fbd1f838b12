package source

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// FileFetcher reads documents from the local filesystem. Locations may be
// file:// URLs or plain paths.
type FileFetcher struct{}

// Fetch implements Fetcher.
func (FileFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Source: location, Err: err}
	}

	path := location
	if strings.HasPrefix(location, "file://") {
		u, err := url.Parse(location)
		if err != nil {
			return nil, &FetchError{Source: location, Err: err}
		}
		path = u.Path
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, &FetchError{Source: location, Status: http.StatusNotFound, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return nil, &FetchError{Source: location, Status: http.StatusForbidden, Err: err}
	case err != nil:
		return nil, &FetchError{Source: location, Err: err}
	}
	return data, nil
}
