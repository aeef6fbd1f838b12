package episode

// normalize.go holds the accessors that turn raw episode fields into display
// and comparison values. Filtering, sorting, export, and both presentations
// call these same functions so a record reads identically everywhere.
//
// Broadcast dates arrive in several shapes:
//   - a bare year ("1963"), taken as 1 January of that year
//   - day-first slash dates ("23/11/1963")
//   - ISO dates and timestamps ("1963-11-23", "1963-11-23T17:16:20Z")
//   - month-name dates ("November 23, 1963", "23 Nov 1963")
//
// Anything else is treated as unparseable rather than guessed at.

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// NotAvailable is the placeholder shown for missing people and years.
const NotAvailable = "N/A"

var (
	yearOnlyRegex  = regexp.MustCompile(`^\d{4}$`)
	slashDateRegex = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
)

// dayFirstSlashLayout parses DD/MM/YYYY with or without leading zeros.
const dayFirstSlashLayout = "2/1/2006"

// fallbackDateLayouts is the pinned set of formats tried after the year-only
// and slash forms.
var fallbackDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// NormalizeDate parses a broadcast date. It returns false for empty or
// unparseable input. Dates without a zone are UTC.
func NormalizeDate(text string) (time.Time, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}

	if yearOnlyRegex.MatchString(s) {
		var year int
		fmt.Sscanf(s, "%d", &year)
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}

	if slashDateRegex.MatchString(s) {
		t, err := time.Parse(dayFirstSlashLayout, s)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Year returns the four-digit year of a broadcast date, or "N/A".
func Year(dateText string) string {
	t, ok := NormalizeDate(dateText)
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%04d", t.Year())
}

// FormatDoctor renders a doctor as "<actor>" or "<actor> (<incarnation>)".
// A nil doctor or one without an actor is "N/A".
func FormatDoctor(doctor *Person, includeIncarnation bool) string {
	if doctor == nil {
		return NotAvailable
	}
	return formatPerson(doctor.Actor, doctor.Incarnation, includeIncarnation)
}

// FormatCompanion renders a companion as "<actor>" or "<actor> (<character>)".
// A nil companion or one without an actor is "N/A".
func FormatCompanion(companion *Person, includeCharacter bool) string {
	if companion == nil {
		return NotAvailable
	}
	return formatPerson(companion.Actor, companion.Character, includeCharacter)
}

func formatPerson(actor, secondary Value, includeSecondary bool) string {
	if actor.Blank() {
		return NotAvailable
	}
	if !includeSecondary {
		return actor.Text()
	}
	detail := secondary.Text()
	if secondary.Blank() {
		detail = NotAvailable
	}
	return fmt.Sprintf("%s (%s)", actor.Text(), detail)
}
