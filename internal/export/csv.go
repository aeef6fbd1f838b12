// Package export writes the visible episodes as CSV.
//
// The output is UTF-8, comma-delimited, and uses "\n" line endings. Fields
// are quoted only when they contain a comma, a double quote, or a line
// break; embedded quotes are doubled (RFC 4180).
package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/JonMunkholm/episodes/internal/episode"
)

// FileName is the download name for exported episodes.
const FileName = "doctor_who_episodes.csv"

// ContentType is the MIME type of the export.
const ContentType = "text/csv; charset=utf-8"

// Header is the fixed export header row.
var Header = []string{
	"Rank",
	"Title",
	"Series",
	"Era",
	"Year",
	"Director",
	"Writer",
	"Doctor",
	"Companion",
	"Cast Count",
}

// Row converts one episode into export columns, before escaping.
func Row(ep episode.Episode) []string {
	return []string{
		ep.Rank.Text(),
		ep.Title.Text(),
		ep.Series.Text(),
		ep.Era.Text(),
		episode.Year(ep.BroadcastDate.Text()),
		ep.Director.Text(),
		ep.Writer.Text(),
		episode.FormatDoctor(ep.Doctor, true),
		episode.FormatCompanion(ep.Companion, true),
		strconv.Itoa(ep.CastCount()),
	}
}

// Escape quotes a field when it contains a comma, a double quote, or a
// line break.
func Escape(value string) string {
	if !strings.ContainsAny(value, ",\"\n\r") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// WriteCSV writes the header and one line per episode to w.
func WriteCSV(w io.Writer, episodes []episode.Episode) error {
	bw := bufio.NewWriter(w)

	if err := writeLine(bw, Header); err != nil {
		return err
	}
	for _, ep := range episodes {
		if err := writeLine(bw, Row(ep)); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// CSV returns the export as a string.
func CSV(episodes []episode.Episode) string {
	var b strings.Builder
	// strings.Builder never returns a write error.
	_ = WriteCSV(&b, episodes)
	return b.String()
}

func writeLine(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(Escape(f)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}
