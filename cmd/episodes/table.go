package main

import (
	"io"
	"os"
	"strconv"

	"github.com/JonMunkholm/episodes/internal/episode"
	"github.com/JonMunkholm/episodes/internal/view"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

func renderEpisodes(episodes []episode.Episode) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(view.Columns))
	for i, label := range view.Labels() {
		header[i] = label
	}
	tw.AppendHeader(header)

	for _, ep := range episodes {
		cells := view.Cells(ep)
		row := make(table.Row, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		tw.AppendRow(row)
	}

	configs := make([]table.ColumnConfig, 0, len(view.Columns))
	for i, f := range view.Columns {
		align := text.AlignLeft
		if f == view.FieldRank || f == view.FieldSeries || f == view.FieldCastCount {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func renderWarnings(warnings []episode.Warning) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Title", "Field", "Problem"})
	for _, w := range warnings {
		tw.AppendRow(table.Row{strconv.Itoa(w.Index), w.Title, w.Field, w.Message})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
