package source

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoSources is returned when a load is requested with an empty source list.
var ErrNoSources = errors.New("no episode sources configured")

// FetchError reports a source that could not be retrieved. Status is the
// HTTP status (or its equivalent for file and database sources) when the
// source answered, and 0 when it could not be reached at all.
type FetchError struct {
	Source string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		text := http.StatusText(e.Status)
		if text == "" {
			text = "unexpected status"
		}
		return fmt.Sprintf("fetch %s: status %d %s", e.Source, e.Status, text)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DecodeError reports a source whose body is not a valid episode document.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: invalid json: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// errMissingEpisodes is wrapped in a DecodeError when a document has no
// "episodes" array.
var errMissingEpisodes = errors.New(`missing "episodes" array`)
