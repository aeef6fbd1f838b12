// Package tui is the terminal presentation of the episode explorer.
//
// The model keeps its own view.State and drives it through the pure view
// functions from the bubbletea event loop; loads and exports run as
// commands and report back as messages.
package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/episodes/internal/app"
	"github.com/JonMunkholm/episodes/internal/episode"
	"github.com/JonMunkholm/episodes/internal/export"
	"github.com/JonMunkholm/episodes/internal/source"
	"github.com/JonMunkholm/episodes/internal/view"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Options configures a terminal explorer.
type Options struct {
	Context   context.Context
	Loader    app.Loader
	Sources   []source.Source
	ExportDir string
}

// pane is the part of the screen that receives keys.
type pane int

const (
	paneFilter pane = iota
	paneHeaders
	paneRows
	paneCount
)

// defaultPageSize is the table window used before the first WindowSizeMsg.
const defaultPageSize = 20

// chromeLines is the vertical space taken by everything except table rows.
const chromeLines = 12

/* ----------------------------------------
	MESSAGES
---------------------------------------- */

type loadedMsg struct {
	result *source.Result
	err    error
}

type exportedMsg struct {
	path  string
	count int
	err   error
}

/* ----------------------------------------
	MODEL
---------------------------------------- */

// Model is the bubbletea model of the explorer.
type Model struct {
	ctx       context.Context
	loader    app.Loader
	sources   []source.Source
	exportDir string

	keys    keyMap
	help    help.Model
	filter  textinput.Model
	spinner spinner.Model

	state    view.State
	loading  bool
	failure  *app.UserMessage
	warnings []episode.Warning

	pane      pane
	headerCol int
	offset    int
	width     int
	height    int
	status    string
}

// New returns a model that starts loading on Init.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search title, doctor, companion, writer, director"
	ti.CharLimit = 200
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle))

	return Model{
		ctx:       ctx,
		loader:    opts.Loader,
		sources:   opts.Sources,
		exportDir: opts.ExportDir,
		keys:      defaultKeys(),
		help:      help.New(),
		filter:    ti,
		spinner:   sp,
		state:     view.New(nil),
		loading:   true,
		pane:      paneFilter,
	}
}

// Run starts the explorer on the terminal and blocks until it quits.
func Run(opts Options) error {
	var progOpts []tea.ProgramOption
	progOpts = append(progOpts, tea.WithAltScreen())
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	_, err := tea.NewProgram(New(opts), progOpts...).Run()
	return err
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.load())
}

/* ----------------------------------------
	COMMANDS
---------------------------------------- */

func (m Model) load() tea.Cmd {
	ctx, loader, sources := m.ctx, m.loader, m.sources
	return func() tea.Msg {
		res, err := loader.Load(ctx, sources)
		return loadedMsg{result: res, err: err}
	}
}

func exportCmd(dir string, episodes []episode.Episode) tea.Cmd {
	return func() tea.Msg {
		path, err := export.WriteFile(dir, episodes)
		return exportedMsg{path: path, count: len(episodes), err: err}
	}
}

/* ----------------------------------------
	UPDATE
---------------------------------------- */

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scrollToFocus()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		return m.applyLoad(msg), nil

	case exportedMsg:
		if msg.err != nil {
			slog.Error("export failed", "error", msg.err)
			m.status = "Export failed: " + msg.err.Error()
		} else {
			slog.Info("export written", "path", msg.path, "episodes", msg.count)
			m.status = fmt.Sprintf("Exported %d episodes to %s", msg.count, msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.pane == paneFilter {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) applyLoad(msg loadedMsg) Model {
	m.loading = false
	m.offset = 0

	if msg.err != nil {
		um := app.MapError(msg.err)
		m.failure = &um
		m.state = m.state.WithDataset(nil)
		m.warnings = nil
		return m
	}

	res := msg.result
	m.failure = nil
	m.state = m.state.WithDataset(res.Episodes)
	m.warnings = res.Warnings
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextPane):
		return m.focusPane((m.pane + 1) % paneCount)
	case key.Matches(msg, m.keys.PrevPane):
		return m.focusPane((m.pane + paneCount - 1) % paneCount)
	}

	if m.pane == paneFilter {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Filter):
		return m.focusPane(paneFilter)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Left):
		if m.pane == paneHeaders && m.headerCol > 0 {
			m.headerCol--
		}

	case key.Matches(msg, m.keys.Right):
		if m.pane == paneHeaders && m.headerCol < len(view.Columns)-1 {
			m.headerCol++
		}

	case key.Matches(msg, m.keys.Sort):
		if m.pane == paneHeaders {
			m.state = m.state.ActivateHeader(view.Columns[m.headerCol])
			m.offset = 0
		}

	case key.Matches(msg, m.keys.Up):
		m.pane = paneRows
		m.state = m.state.Navigate(view.Up)
		m.scrollToFocus()

	case key.Matches(msg, m.keys.Down):
		m.pane = paneRows
		m.state = m.state.Navigate(view.Down)
		m.scrollToFocus()

	case key.Matches(msg, m.keys.Reload):
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, m.load())

	case key.Matches(msg, m.keys.Export):
		if m.loading || m.failure != nil {
			m.status = "Nothing to export"
			return m, nil
		}
		return m, exportCmd(m.exportDir, m.state.Visible())
	}

	return m, nil
}

// handleFilterKey routes keys to the search box. Arrow keys still move
// the row focus so the list can be browsed while typing.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		m.state = m.state.Navigate(view.Up)
		m.scrollToFocus()
		return m, nil
	case tea.KeyDown:
		m.state = m.state.Navigate(view.Down)
		m.scrollToFocus()
		return m, nil
	case tea.KeyEsc, tea.KeyEnter:
		return m.focusPane(paneRows)
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if after := m.filter.Value(); after != before {
		m.state = m.state.WithFilter(after)
		m.offset = 0
	}
	return m, cmd
}

func (m Model) focusPane(p pane) (tea.Model, tea.Cmd) {
	m.pane = p
	if p == paneFilter {
		return m, m.filter.Focus()
	}
	m.filter.Blur()
	return m, nil
}

/* ----------------------------------------
	SCROLLING
---------------------------------------- */

// pageSize is the number of table rows that fit on screen.
func (m Model) pageSize() int {
	if m.height == 0 {
		return defaultPageSize
	}
	return max(m.height-chromeLines, 1)
}

// scrollToFocus moves the table window so the focused row is visible.
func (m *Model) scrollToFocus() {
	focus := m.state.Focus()
	if focus == view.NoFocus {
		return
	}
	size := m.pageSize()
	if focus < m.offset {
		m.offset = focus
	}
	if focus >= m.offset+size {
		m.offset = focus - size + 1
	}
	m.offset = max(m.offset, 0)
}

// window returns the visible rows currently on screen and the index of the
// first one.
func (m Model) window() ([]episode.Episode, int) {
	visible := m.state.Visible()
	start := min(m.offset, len(visible))
	end := min(start+m.pageSize(), len(visible))
	return visible[start:end], start
}
