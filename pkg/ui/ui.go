// Package ui provides an interactive sidebar browser for storysort.
package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/dustin/go-humanize/english"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/storysort/pkg/catalog"
	"github.com/macropower/storysort/pkg/log"
	"github.com/macropower/storysort/pkg/sidebar"
	"github.com/macropower/storysort/pkg/ui/styles"
	"github.com/macropower/storysort/pkg/watch"
	"github.com/macropower/storysort/pkg/workspace"
)

const messageTimeout = 3 * time.Second

// Config configures the browser.
type Config struct {
	// Load is called on start, on reload, and after every watch event.
	Load workspace.LoadFunc
	// Events optionally delivers file change notifications.
	Events <-chan watch.Event
	// Backlog optionally holds log output shown in the log view.
	Backlog  *log.Backlog
	KeyBinds *KeyBinds
	// Clipboard writes copied text. It defaults to the system clipboard.
	Clipboard func(string) error
}

type (
	loadedMsg struct {
		state *workspace.State
		err   error
	}
	fileChangedMsg  watch.Event
	clearMessageMsg struct{}
)

// Model is the browser's Bubble Tea model.
type Model struct {
	err          error
	state        *workspace.State
	kb           *KeyBinds
	clipboard    func(string) error
	load         workspace.LoadFunc
	events       <-chan watch.Event
	backlog      *log.Backlog
	message      string
	lines        []sidebar.Line
	filter       textinput.Model
	logs         viewport.Model
	cursor       int
	offset       int
	width        int
	height       int
	showRoots    bool
	rootsToggled bool
	filtering    bool
	showHelp     bool
	showLogs     bool
}

// New creates a new [Model].
func New(cfg Config) *Model {
	kb := cfg.KeyBinds
	if kb == nil {
		kb = NewKeyBinds()
	}

	kb.EnsureDefaults()

	clip := cfg.Clipboard
	if clip == nil {
		clip = clipboard.WriteAll
	}

	fi := textinput.New()
	fi.Prompt = "/"
	fi.Placeholder = "filter"

	return &Model{
		kb:        kb,
		clipboard: clip,
		load:      cfg.Load,
		events:    cfg.Events,
		backlog:   cfg.Backlog,
		filter:    fi,
		logs:      viewport.New(0, 0),
		showRoots: true,
	}
}

// NewProgram returns a new Tea program running the browser full screen.
func NewProgram(cfg Config, opts ...tea.ProgramOption) *tea.Program {
	slog.Debug("starting storysort ui")

	return tea.NewProgram(New(cfg), append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
}

func (m *Model) Init() tea.Cmd {
	if m.events == nil {
		return m.loadCmd()
	}

	return tea.Batch(m.loadCmd(), m.waitForEvent())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.logs.Width, m.logs.Height = msg.Width, max(0, msg.Height-2)
		m.refresh()

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err

			return m, nil
		}

		m.err = nil
		m.state = msg.state
		if !m.rootsToggled {
			m.showRoots = msg.state.ShowRoots
		}

		m.refresh()

		return m, m.flash(fmt.Sprintf("Loaded %s", english.Plural(msg.state.Catalog.Len(), "entry", "")))

	case fileChangedMsg:
		if msg.Err != nil {
			m.err = msg.Err

			return m, m.waitForEvent()
		}

		slog.Debug("reloading after file change", slog.String("path", msg.Path))

		return m, tea.Batch(m.loadCmd(), m.waitForEvent())

	case clearMessageMsg:
		m.message = ""

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.filtering {
		return m.handleFilterKey(msg)
	}

	if m.showLogs {
		if m.kb.Logs.Match(key) || m.kb.ClearFilter.Match(key) || m.kb.Quit.Match(key) {
			m.showLogs = false

			return m, nil
		}

		var cmd tea.Cmd

		m.logs, cmd = m.logs.Update(msg)

		return m, cmd
	}

	switch {
	case m.kb.Quit.Match(key):
		return m, tea.Quit

	case m.kb.Help.Match(key):
		m.showHelp = !m.showHelp

	case m.kb.Up.Match(key):
		m.move(-1)

	case m.kb.Down.Match(key):
		m.move(1)

	case m.kb.PageUp.Match(key):
		m.move(-m.bodyHeight())

	case m.kb.PageDown.Match(key):
		m.move(m.bodyHeight())

	case m.kb.Home.Match(key):
		m.move(-len(m.lines))

	case m.kb.End.Match(key):
		m.move(len(m.lines))

	case m.kb.Filter.Match(key):
		m.filtering = true

		return m, m.filter.Focus()

	case m.kb.ClearFilter.Match(key):
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.refresh()
		}

	case m.kb.Copy.Match(key):
		return m, m.copySelected()

	case m.kb.Reload.Match(key):
		return m, m.loadCmd()

	case m.kb.ToggleRoots.Match(key):
		m.showRoots = !m.showRoots
		m.rootsToggled = true
		m.refresh()

	case m.kb.Logs.Match(key):
		if m.backlog == nil {
			return m, nil
		}

		m.showLogs = true
		m.logs.SetContent(string(bytes.Join(m.backlog.Lines(), nil)))
		m.logs.GotoBottom()
	}

	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch {
	case m.kb.ClearFilter.Match(key):
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.refresh()

		return m, nil

	case key == "enter":
		m.filtering = false
		m.filter.Blur()

		return m, nil
	}

	var cmd tea.Cmd

	m.filter, cmd = m.filter.Update(msg)
	m.cursor, m.offset = 0, 0
	m.refresh()

	return m, cmd
}

// Selected returns the line under the cursor.
func (m *Model) Selected() (sidebar.Line, bool) {
	if m.cursor < 0 || m.cursor >= len(m.lines) {
		return sidebar.Line{}, false
	}

	return m.lines[m.cursor], true
}

// Err returns the last load error.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) copySelected() tea.Cmd {
	l, ok := m.Selected()
	if !ok {
		return nil
	}

	var text string

	switch {
	case l.Entry != nil:
		text = l.Entry.ID
	case l.Node != nil:
		text = l.Node.Path
	default:
		return nil
	}

	err := m.clipboard(text)
	if err != nil {
		m.err = fmt.Errorf("copy to clipboard: %w", err)

		return nil
	}

	return m.flash("Copied " + text)
}

// refresh rebuilds the sidebar lines from the current state and filter.
func (m *Model) refresh() {
	if m.state == nil {
		m.lines = nil

		return
	}

	sep := m.state.Comparator.Separator()

	entries := m.state.Catalog.Entries
	if q := m.filter.Value(); q != "" {
		entries = filterEntries(entries, q, sep)
	}

	opts := []sidebar.RenderOpt{
		sidebar.WithShowRoots(m.showRoots),
		sidebar.WithStyles(styles.Sidebar()),
	}
	if m.width > 2 {
		opts = append(opts, sidebar.WithWidth(m.width-2))
	}

	m.lines = sidebar.Build(entries, sep).Lines(opts...)

	m.cursor = min(m.cursor, max(0, len(m.lines)-1))
	m.move(0)
}

// move moves the cursor by delta lines, skipping blank separator lines.
func (m *Model) move(delta int) {
	if len(m.lines) == 0 {
		m.cursor, m.offset = 0, 0

		return
	}

	m.cursor = max(0, min(len(m.lines)-1, m.cursor+delta))

	step := 1
	if delta < 0 {
		step = -1
	}

	for m.isBlank(m.cursor) {
		next := m.cursor + step
		if next < 0 || next >= len(m.lines) {
			step = -step
			next = m.cursor + step
		}

		m.cursor = next
	}

	h := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if h > 0 && m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

func (m *Model) isBlank(i int) bool {
	l := m.lines[i]

	return l.Entry == nil && l.Node == nil
}

func (m *Model) loadCmd() tea.Cmd {
	load := m.load

	return func() tea.Msg {
		if load == nil {
			return loadedMsg{err: errors.New("no catalog loader configured")}
		}

		state, err := load(context.Background())

		return loadedMsg{state: state, err: err}
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	ch := m.events

	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}

		return fileChangedMsg(evt)
	}
}

func (m *Model) flash(msg string) tea.Cmd {
	m.message = msg

	return tea.Tick(messageTimeout, func(time.Time) tea.Msg {
		return clearMessageMsg{}
	})
}

// filterEntries keeps the entries whose path fuzzy-matches query, in their
// original order.
func filterEntries(entries []catalog.Entry, query, sep string) []catalog.Entry {
	targets := make([]string, len(entries))
	for i, e := range entries {
		targets[i] = e.Path(sep)
	}

	idx := []int{}
	for _, match := range fuzzy.Find(query, targets) {
		idx = append(idx, match.Index)
	}

	slices.Sort(idx)

	out := make([]catalog.Entry, 0, len(idx))
	for _, i := range idx {
		out = append(out, entries[i])
	}

	return out
}
