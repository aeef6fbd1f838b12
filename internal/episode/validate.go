package episode

// validate.go scans a merged dataset for data-quality problems.
//
// Validation is advisory: it never rejects a record or stops a load. Each rule
// is independent, so one record can produce several warnings. Warnings come
// out in record order, and within a record in rule order:
//  1. Missing required fields (rank, title, era, broadcast_date)
//  2. Broadcast date in the future
//  3. Rank not a number, or a rank already used by an earlier record
//  4. Negative series number

import (
	"fmt"
	"time"
)

// Warning describes one data-quality problem in one record.
type Warning struct {
	Index   int    `json:"index"`   // Position in the merged dataset (0-based)
	Title   string `json:"title"`   // Record title, if any, to help locate it
	Field   string `json:"field"`   // Offending field
	Message string `json:"message"` // Human-readable description
}

// String renders the warning for logs and banners, e.g.
// `episode 4 "Genesis of the Daleks": rank: duplicate rank 5 (first seen at episode 2)`.
func (w Warning) String() string {
	loc := fmt.Sprintf("episode %d", w.Index+1)
	if w.Title != "" {
		loc = fmt.Sprintf("%s %q", loc, w.Title)
	}
	return fmt.Sprintf("%s: %s: %s", loc, w.Field, w.Message)
}

// requiredFields are checked for presence, in this order.
var requiredFields = []struct {
	name string
	get  func(Episode) Value
}{
	{"rank", func(e Episode) Value { return e.Rank }},
	{"title", func(e Episode) Value { return e.Title }},
	{"era", func(e Episode) Value { return e.Era }},
	{"broadcast_date", func(e Episode) Value { return e.BroadcastDate }},
}

// Validate checks every record against the data-quality rules and returns
// the warnings found. An empty result means the dataset is clean.
func Validate(episodes []Episode, now time.Time) []Warning {
	var warnings []Warning
	seenRanks := make(map[float64]int)

	for i, ep := range episodes {
		warn := func(field, format string, args ...any) {
			warnings = append(warnings, Warning{
				Index:   i,
				Title:   ep.Title.Text(),
				Field:   field,
				Message: fmt.Sprintf(format, args...),
			})
		}

		for _, f := range requiredFields {
			if f.get(ep).Blank() {
				warn(f.name, "missing required field")
			}
		}

		if date, ok := NormalizeDate(ep.BroadcastDate.Text()); ok && date.After(now) {
			warn("broadcast_date", "date %q is in the future", ep.BroadcastDate.Text())
		}

		if rank, ok := ep.Rank.Float(); !ok {
			warn("rank", "invalid rank %q: not a finite number", ep.Rank.Text())
		} else if first, dup := seenRanks[rank]; dup {
			warn("rank", "duplicate rank %s (first seen at episode %d)", ep.Rank.Text(), first+1)
		} else {
			seenRanks[rank] = i
		}

		if series, ok := ep.Series.Float(); ok && series < 0 {
			warn("series", "negative series number %s", ep.Series.Text())
		}
	}

	return warnings
}

// Strings renders warnings in order, for logging and JSON output.
func Strings(warnings []Warning) []string {
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.String()
	}
	return out
}
