package ui_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/storysort/api/v1beta1/previews"
	"github.com/macropower/storysort/pkg/catalog"
	"github.com/macropower/storysort/pkg/log"
	"github.com/macropower/storysort/pkg/ui"
	"github.com/macropower/storysort/pkg/uitest"
	"github.com/macropower/storysort/pkg/watch"
	"github.com/macropower/storysort/pkg/workspace"
)

func loader(t *testing.T, loads *atomic.Int32) workspace.LoadFunc {
	t.Helper()

	return func(context.Context) (*workspace.State, error) {
		if loads != nil {
			loads.Add(1)
		}

		cmp, err := previews.New().Comparator()
		if err != nil {
			return nil, err
		}

		cat := catalog.New(
			catalog.Entry{Kind: "Overlays/Dialog", Name: "Docs", Type: catalog.TypeDocs},
			catalog.Entry{Kind: "Forms/System", Name: "Tokens", Type: catalog.TypeStory},
			catalog.Entry{Kind: "Forms/Input", Name: "Default", Type: catalog.TypeStory},
			catalog.Entry{Kind: "Intro", Name: "Docs", Type: catalog.TypeDocs},
		)

		err = cat.Sort(cmp)
		if err != nil {
			return nil, err
		}

		return &workspace.State{
			Catalog:    cat,
			Comparator: cmp,
			LoadedAt:   time.Now(),
			ShowRoots:  true,
		}, nil
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newLoaded(t *testing.T, cfg ui.Config) *ui.Model {
	t.Helper()

	m := ui.New(cfg)

	cmd := m.Init()
	require.NotNil(t, cmd)

	m.Update(cmd())
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	return m
}

func send(m *ui.Model, keys ...string) {
	for _, k := range keys {
		m.Update(key(k))
	}
}

func selectedID(t *testing.T, m *ui.Model) string {
	t.Helper()

	l, ok := m.Selected()
	require.True(t, ok)
	require.NotNil(t, l.Entry, "selected line %q is not an entry", ansi.Strip(l.Text))

	return l.Entry.ID
}

func TestModel_Navigation(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want string
		keys []string
	}{
		"first entry": {
			keys: []string{"down"},
			want: "intro--docs",
		},
		"skips blank lines and headers": {
			keys: []string{"down", "down", "down", "down"},
			want: "forms-input--default",
		},
		"vim keys": {
			keys: []string{"j", "j", "j", "j", "k", "j"},
			want: "forms-input--default",
		},
		"end": {
			keys: []string{"G"},
			want: "overlays-dialog--docs",
		},
		"home then down": {
			keys: []string{"G", "g", "j"},
			want: "intro--docs",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := newLoaded(t, ui.Config{Load: loader(t, nil)})
			send(m, tc.keys...)

			assert.Equal(t, tc.want, selectedID(t, m))
		})
	}
}

func TestModel_View(t *testing.T) {
	t.Parallel()

	m := newLoaded(t, ui.Config{Load: loader(t, nil)})

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "storysort")
	assert.Contains(t, view, "default configuration")
	assert.Contains(t, view, "FORMS")
	assert.Contains(t, view, "OVERLAYS")
	assert.Contains(t, view, "Loaded 4 entries")
	assert.LessOrEqual(t, len(strings.Split(view, "\n")), 24)

	send(m, "s")

	view = ansi.Strip(m.View())
	assert.NotContains(t, view, "FORMS")
	assert.Contains(t, view, "▾ Forms")

	send(m, "?")
	assert.Contains(t, ansi.Strip(m.View()), "toggle help")
}

func TestModel_Filter(t *testing.T) {
	t.Parallel()

	m := newLoaded(t, ui.Config{Load: loader(t, nil)})

	send(m, "/", "i", "n", "p", "enter")

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Input")
	assert.NotContains(t, view, "Overlays")
	assert.NotContains(t, view, "Tokens")

	send(m, "G")
	assert.Equal(t, "forms-input--default", selectedID(t, m))

	// Clearing the filter restores every entry.
	send(m, "esc", "G")
	assert.Equal(t, "overlays-dialog--docs", selectedID(t, m))
}

func TestModel_FilterCancel(t *testing.T) {
	t.Parallel()

	m := newLoaded(t, ui.Config{Load: loader(t, nil)})

	send(m, "/", "x", "y", "z", "esc", "G")
	assert.Equal(t, "overlays-dialog--docs", selectedID(t, m))
}

func TestModel_Copy(t *testing.T) {
	t.Parallel()

	var copied string

	m := newLoaded(t, ui.Config{
		Load: loader(t, nil),
		Clipboard: func(s string) error {
			copied = s

			return nil
		},
	})

	send(m, "j", "c")
	assert.Equal(t, "intro--docs", copied)
	assert.Contains(t, ansi.Strip(m.View()), "Copied intro--docs")

	send(m, "g", "c")
	assert.Equal(t, "Intro", copied)
}

func TestModel_CopyError(t *testing.T) {
	t.Parallel()

	m := newLoaded(t, ui.Config{
		Load: loader(t, nil),
		Clipboard: func(string) error {
			return errors.New("no clipboard")
		},
	})

	send(m, "j", "c")
	require.Error(t, m.Err())
	assert.Contains(t, ansi.Strip(m.View()), "no clipboard")
}

func TestModel_LoadError(t *testing.T) {
	t.Parallel()

	m := newLoaded(t, ui.Config{
		Load: func(context.Context) (*workspace.State, error) {
			return nil, errors.New("catalog not found")
		},
	})

	require.Error(t, m.Err())

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Error")
	assert.Contains(t, view, "catalog not found")

	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestModel_Logs(t *testing.T) {
	t.Parallel()

	backlog := log.NewBacklog(10)
	_, err := backlog.Write([]byte("level=INFO msg=\"hello from the log\"\n"))
	require.NoError(t, err)

	m := newLoaded(t, ui.Config{Load: loader(t, nil), Backlog: backlog})

	send(m, "l")
	assert.Contains(t, ansi.Strip(m.View()), "hello from the log")

	send(m, "l")
	assert.NotContains(t, ansi.Strip(m.View()), "hello from the log")
}

func TestModel_ReloadOnEvent(t *testing.T) {
	t.Parallel()

	loads := &atomic.Int32{}
	events := make(chan watch.Event, 1)

	m := ui.New(ui.Config{Load: loader(t, loads), Events: events})

	batch, ok := m.Init()().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)

	m.Update(batch[0]())
	assert.Equal(t, int32(1), loads.Load())

	events <- watch.Event{Path: "preview.yaml"}

	_, cmd := m.Update(batch[1]())
	require.NotNil(t, cmd)

	next, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)

	m.Update(next[0]())
	assert.Equal(t, int32(2), loads.Load())
	require.NoError(t, m.Err())
}

func TestProgram(t *testing.T) {
	t.Parallel()

	tm := uitest.NewTestModel(t, ui.New(ui.Config{Load: loader(t, nil)}), uitest.Standard)

	uitest.WaitFor(t, tm.Output(), uitest.Contains("Intro", "FORMS", "OVERLAYS"))

	tm.Send(key("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
