// Package view holds the explorer's view state and the pure functions that
// move it forward.
//
// A [State] is an immutable snapshot: the dataset, the search text, the
// active sort, the derived visible sequence, and the keyboard focus. Every
// update returns a new State and leaves the receiver untouched, so the
// web server and the terminal UI can hold on to snapshots freely and tests
// can drive the whole pipeline with synthetic records.
//
// Focus invariant: Focus() is always in [-1, len(Visible())-1], and any
// change that recomputes the visible sequence resets it to -1.
package view

import "github.com/JonMunkholm/episodes/internal/episode"

// NoFocus is the focus index when no row is selected.
const NoFocus = -1

// Direction is a row navigation step.
type Direction int

const (
	Up Direction = iota
	Down
)

// ParseDirection maps "up"/"down" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	default:
		return Up, false
	}
}

// State is one snapshot of the explorer.
type State struct {
	dataset []episode.Episode
	filter  string
	sort    Sort
	visible []episode.Episode
	focus   int
}

// New returns a State over dataset with no filter and the default sort.
func New(dataset []episode.Episode) State {
	return State{dataset: dataset, sort: DefaultSort}.recompute()
}

// Dataset returns the loaded records. Callers must not modify the slice.
func (s State) Dataset() []episode.Episode { return s.dataset }

// Filter returns the current search text.
func (s State) Filter() string { return s.filter }

// Sort returns the active ordering.
func (s State) Sort() Sort { return s.sort }

// Visible returns the derived sequence. Callers must not modify the slice.
func (s State) Visible() []episode.Episode { return s.visible }

// Focus returns the focused row index, or NoFocus.
func (s State) Focus() int { return s.focus }

// Focused returns the focused record, if any.
func (s State) Focused() (episode.Episode, bool) {
	if s.focus < 0 || s.focus >= len(s.visible) {
		return episode.Episode{}, false
	}
	return s.visible[s.focus], true
}

// WithDataset replaces the dataset, keeping filter and sort.
func (s State) WithDataset(dataset []episode.Episode) State {
	s.dataset = dataset
	return s.recompute()
}

// WithFilter sets the search text and recomputes the visible sequence.
func (s State) WithFilter(text string) State {
	s.filter = text
	return s.recompute()
}

// WithSort sets the ordering directly and recomputes.
func (s State) WithSort(sort Sort) State {
	if !sort.Field.Valid() {
		return s
	}
	s.sort = sort
	return s.recompute()
}

// ActivateHeader applies a header activation for field f. Unknown fields
// leave the state unchanged.
func (s State) ActivateHeader(f Field) State {
	if !f.Valid() {
		return s
	}
	s.sort = s.sort.Toggle(f)
	return s.recompute()
}

// Navigate moves the focus one row up or down, clamped to the visible
// rows. With no visible rows it is a no-op.
func (s State) Navigate(dir Direction) State {
	n := len(s.visible)
	if n == 0 {
		return s
	}

	next := s.focus + 1
	if dir == Up {
		next = s.focus - 1
	}
	s.focus = min(max(next, 0), n-1)
	return s
}

func (s State) recompute() State {
	s.visible = Compute(s.dataset, s.filter, s.sort)
	s.focus = NoFocus
	return s
}
