package view

import "strings"

// Field names a sortable table column. Values match the JSON keys of the
// source documents, plus the derived "cast_count".
type Field string

const (
	FieldRank          Field = "rank"
	FieldTitle         Field = "title"
	FieldSeries        Field = "series"
	FieldEra           Field = "era"
	FieldBroadcastDate Field = "broadcast_date"
	FieldDirector      Field = "director"
	FieldWriter        Field = "writer"
	FieldDoctor        Field = "doctor"
	FieldCompanion     Field = "companion"
	FieldCastCount     Field = "cast_count"
)

// Columns lists the table columns in display order.
var Columns = []Field{
	FieldRank,
	FieldTitle,
	FieldSeries,
	FieldEra,
	FieldBroadcastDate,
	FieldDirector,
	FieldWriter,
	FieldDoctor,
	FieldCompanion,
	FieldCastCount,
}

var fieldLabels = map[Field]string{
	FieldRank:          "Rank",
	FieldTitle:         "Title",
	FieldSeries:        "Series",
	FieldEra:           "Era",
	FieldBroadcastDate: "Broadcast Date",
	FieldDirector:      "Director",
	FieldWriter:        "Writer",
	FieldDoctor:        "Doctor",
	FieldCompanion:     "Companion",
	FieldCastCount:     "Cast",
}

// ParseField resolves a column name case-insensitively.
func ParseField(s string) (Field, bool) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	_, ok := fieldLabels[f]
	return f, ok
}

// Label returns the column header text.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// Valid reports whether f is a known column.
func (f Field) Valid() bool {
	_, ok := fieldLabels[f]
	return ok
}
