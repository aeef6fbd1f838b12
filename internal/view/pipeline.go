package view

// pipeline.go derives the visible sequence from a dataset: filter, then a
// stable sort on one column.
//
// The search box matches title, doctor actor, companion actor, writer, and
// director by case-insensitive substring. Sort keys follow the same accessors
// the table and CSV export use, so what the user sees is what gets ordered:
//   - doctor/companion sort by the actor-only text ("N/A" when missing)
//   - broadcast_date sorts by the parsed instant (unparseable dates as epoch 0)
//   - cast_count sorts by the number of cast entries
//   - every other column sorts by its raw value as case-folded text, so
//     numbers compare by their spelling ("10" before "2")

import (
	"cmp"
	"slices"
	"strings"

	"github.com/JonMunkholm/episodes/internal/episode"
	"golang.org/x/text/cases"
)

// Sort is the active ordering.
type Sort struct {
	Field     Field
	Ascending bool
}

// DefaultSort orders by rank, lowest first.
var DefaultSort = Sort{Field: FieldRank, Ascending: true}

// Toggle returns the ordering after the header for field f is activated:
// the same header flips direction, a different header starts ascending.
func (s Sort) Toggle(f Field) Sort {
	if f == s.Field {
		return Sort{Field: f, Ascending: !s.Ascending}
	}
	return Sort{Field: f, Ascending: true}
}

// Dir returns "asc" or "desc".
func (s Sort) Dir() string {
	if s.Ascending {
		return "asc"
	}
	return "desc"
}

// Compute returns the records of dataset that match filter, ordered by s.
// The result is a new slice; dataset is not modified.
func Compute(dataset []episode.Episode, filter string, s Sort) []episode.Episode {
	visible := Filter(dataset, filter)
	SortEpisodes(visible, s)
	return visible
}

// Filter returns the records matching the search text, in input order.
func Filter(dataset []episode.Episode, text string) []episode.Episode {
	needle := strings.ToLower(text)
	out := make([]episode.Episode, 0, len(dataset))
	for _, ep := range dataset {
		if Matches(ep, needle) {
			out = append(out, ep)
		}
	}
	return out
}

// Matches reports whether the lowercase needle occurs in any searchable
// field of ep. An empty needle matches every record.
func Matches(ep episode.Episode, needle string) bool {
	if needle == "" {
		return true
	}
	haystacks := [...]string{
		ep.Title.Text(),
		episode.FormatDoctor(ep.Doctor, false),
		episode.FormatCompanion(ep.Companion, false),
		ep.Writer.Text(),
		ep.Director.Text(),
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// sortKey is the comparable form of one cell. All keys of one column share
// a kind: cast_count and broadcast_date are numeric, the rest are text.
type sortKey struct {
	numeric bool
	num     float64
	text    string
}

func compareKeys(a, b sortKey) int {
	if a.numeric && b.numeric {
		return cmp.Compare(a.num, b.num)
	}
	return strings.Compare(a.text, b.text)
}

func extractKey(ep episode.Episode, f Field, folder cases.Caser) sortKey {
	switch f {
	case FieldDoctor:
		return sortKey{text: folder.String(episode.FormatDoctor(ep.Doctor, false))}
	case FieldCompanion:
		return sortKey{text: folder.String(episode.FormatCompanion(ep.Companion, false))}
	case FieldCastCount:
		return sortKey{numeric: true, num: float64(ep.CastCount())}
	case FieldBroadcastDate:
		var epoch float64
		if t, ok := episode.NormalizeDate(ep.BroadcastDate.Text()); ok {
			epoch = float64(t.UnixMilli())
		}
		return sortKey{numeric: true, num: epoch}
	}

	return sortKey{text: folder.String(rawField(ep, f).Text())}
}

func rawField(ep episode.Episode, f Field) episode.Value {
	switch f {
	case FieldRank:
		return ep.Rank
	case FieldTitle:
		return ep.Title
	case FieldSeries:
		return ep.Series
	case FieldEra:
		return ep.Era
	case FieldBroadcastDate:
		return ep.BroadcastDate
	case FieldDirector:
		return ep.Director
	case FieldWriter:
		return ep.Writer
	default:
		return episode.Value{}
	}
}

// SortEpisodes orders episodes in place by s. Equal keys keep their
// relative order.
func SortEpisodes(episodes []episode.Episode, s Sort) {
	if len(episodes) < 2 {
		return
	}

	folder := cases.Fold()
	type keyed struct {
		key sortKey
		ep  episode.Episode
	}
	items := make([]keyed, len(episodes))
	for i, ep := range episodes {
		items[i] = keyed{key: extractKey(ep, s.Field, folder), ep: ep}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		c := compareKeys(a.key, b.key)
		if !s.Ascending {
			c = -c
		}
		return c
	})

	for i, it := range items {
		episodes[i] = it.ep
	}
}
