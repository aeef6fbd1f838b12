package tui

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/episodes/internal/view"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Padding(0, 1)
	cursorStyle  = headerStyle.Background(lipgloss.Color("4"))
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	focusStyle   = cellStyle.Background(lipgloss.Color("237")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// View renders the whole screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Doctor Who Episodes"))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	switch {
	case m.failure != nil:
		b.WriteString(m.renderFailure())
	case m.loading && len(m.state.Dataset()) == 0:
		b.WriteString(m.spinner.View() + " Loading episodes…")
		b.WriteString("\n")
	default:
		b.WriteString(m.renderTable())
	}

	if n := len(m.warnings); n > 0 && m.failure == nil {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d data-quality %s found. Run `episodes check` for details.", n, plural(n, "warning", "warnings"))))
		b.WriteString("\n")
	}
	if m.loading && len(m.state.Dataset()) > 0 {
		b.WriteString(m.spinner.View() + " Reloading…\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderFailure() string {
	f := m.failure
	var b strings.Builder
	b.WriteString(errorStyle.Render(fmt.Sprintf("%s (Code: %s)", f.Message, f.Code)))
	b.WriteString("\n")
	if f.Detail != "" {
		b.WriteString(dimStyle.Render(f.Detail))
		b.WriteString("\n")
	}
	b.WriteString(f.Action + ". Press r to reload.\n")
	return b.String()
}

func (m Model) renderTable() string {
	visible := m.state.Visible()
	rows, start := m.window()
	focus := m.state.Focus()
	order := m.state.Sort()

	headers := make([]string, len(view.Columns))
	for i, f := range view.Columns {
		label := f.Label()
		if f == order.Field {
			if order.Ascending {
				label += " ▲"
			} else {
				label += " ▼"
			}
		}
		headers[i] = label
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow && m.pane == paneHeaders && col == m.headerCol:
				return cursorStyle
			case row == table.HeaderRow:
				return headerStyle
			case start+row == focus:
				return focusStyle
			default:
				return cellStyle
			}
		})
	if m.width > 0 {
		t = t.Width(m.width)
	}
	for _, ep := range rows {
		t = t.Row(view.Cells(ep)...)
	}

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")

	if len(visible) == 0 {
		b.WriteString(dimStyle.Render("No episodes match."))
		b.WriteString("\n")
	}

	summary := fmt.Sprintf("Showing %d of %d episodes", len(visible), len(m.state.Dataset()))
	if len(visible) > len(rows) {
		summary += fmt.Sprintf(" (rows %d-%d)", start+1, start+len(rows))
	}
	b.WriteString(dimStyle.Render(summary))
	b.WriteString("\n")
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
