package view

import (
	"strconv"

	"github.com/JonMunkholm/episodes/internal/episode"
)

// Cell returns the display text of one column. Absent scalars are empty;
// a missing doctor or companion shows as "N/A".
func Cell(ep episode.Episode, f Field) string {
	switch f {
	case FieldDoctor:
		return episode.FormatDoctor(ep.Doctor, true)
	case FieldCompanion:
		return episode.FormatCompanion(ep.Companion, true)
	case FieldCastCount:
		return strconv.Itoa(ep.CastCount())
	default:
		return rawField(ep, f).Text()
	}
}

// Cells returns the display row for ep in Columns order.
func Cells(ep episode.Episode) []string {
	out := make([]string, len(Columns))
	for i, f := range Columns {
		out[i] = Cell(ep, f)
	}
	return out
}

// Labels returns the column headers in Columns order.
func Labels() []string {
	out := make([]string, len(Columns))
	for i, f := range Columns {
		out[i] = f.Label()
	}
	return out
}
