// Package templates renders the explorer's HTML. The .templ files are the
// source; run `templ generate` after editing them.
package templates

import "strconv"

// ExplorerID is the element HTMX requests swap.
const ExplorerID = "explorer"

// Header is one sortable column header.
type Header struct {
	Field     string
	Label     string
	Active    bool
	Ascending bool
}

// AriaSort returns the aria-sort attribute value.
func (h Header) AriaSort() string {
	switch {
	case !h.Active:
		return "none"
	case h.Ascending:
		return "ascending"
	default:
		return "descending"
	}
}

// Row is one rendered table row.
type Row struct {
	Cells   []string
	Focused bool
}

// Banner is a user-facing error.
type Banner struct {
	Message string
	Action  string
	Code    string
	Detail  string
}

// TableData is everything the explorer region shows.
type TableData struct {
	Headers      []Header
	Rows         []Row
	Filter       string
	Total        int
	Loading      bool
	Error        *Banner
	WarningCount int
}

// PageData is the full page.
type PageData struct {
	Title   string
	Sources []string
	Table   TableData
}

// Arrow marks the active sort column.
func (h Header) Arrow() string {
	switch {
	case !h.Active:
		return ""
	case h.Ascending:
		return " ▲"
	default:
		return " ▼"
	}
}

// explorerTarget is the hx-target selector for the explorer region.
const explorerTarget = "#" + ExplorerID

func warningSummary(count int) string {
	if count == 1 {
		return "1 data-quality warning found."
	}
	return strconv.Itoa(count) + " data-quality warnings found."
}

const pageCSS = `
body { font-family: system-ui, sans-serif; margin: 0; color: #1f2933; }
header, main { padding: 0 1.5rem; }
.sources { color: #616e7c; font-size: .875rem; }
.toolbar { display: flex; gap: .5rem; align-items: center; margin-bottom: 1rem; }
.toolbar input { flex: 1; padding: .4rem .6rem; }
.button, button { padding: .35rem .75rem; cursor: pointer; }
table { border-collapse: collapse; width: 100%; font-size: .875rem; }
th, td { border-bottom: 1px solid #e4e7eb; padding: .35rem .5rem; text-align: left; }
th button { background: none; border: 0; font-weight: 600; padding: 0; }
tr.focused { background: #fff3c4; outline: 2px solid #f0b429; }
.error { background: #ffe3e3; border: 1px solid #e12d39; padding: .75rem 1rem; }
.error pre { white-space: pre-wrap; font-size: .8rem; }
.warnings { background: #fffbea; border: 1px solid #f0b429; padding: .5rem 1rem; margin-bottom: .75rem; display: flex; gap: .5rem; }
.warnings .dismiss { margin-left: auto; background: none; border: 0; font-size: 1rem; line-height: 1; }
.htmx-indicator { display: none; }
.htmx-request .htmx-indicator, .htmx-request.htmx-indicator { display: inline; }
`

const pageJS = `
document.addEventListener('keydown', function (e) {
  if (e.target && e.target.tagName === 'INPUT') { return; }
  var dir = e.key === 'ArrowDown' ? 'down' : (e.key === 'ArrowUp' ? 'up' : '');
  if (!dir) { return; }
  e.preventDefault();
  htmx.ajax('POST', '/focus?dir=' + dir, {target: '#explorer'});
});
document.body.addEventListener('htmx:afterSwap', function () {
  var row = document.querySelector('tr[aria-selected="true"]');
  if (row) { row.scrollIntoView({block: 'nearest'}); }
});
`
