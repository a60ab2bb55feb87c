package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/macropower/storysort/pkg/ui/styles"
)

const (
	helpText   = " ? Help "
	errorText  = " ! Error "
	cursorMark = "> "
)

func (m *Model) View() string {
	if m.showLogs {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.header(),
			m.logs.View(),
			m.statusBar(),
		)
	}

	parts := []string{m.header(), m.body()}
	if m.showHelp {
		parts = append(parts, m.help())
	}

	parts = append(parts, m.statusBar())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) header() string {
	logo := styles.LogoStyle.Render("storysort")

	if m.state == nil {
		return logo
	}

	src := "default configuration"
	if m.state.ConfigPath != "" {
		src = m.state.ConfigPath
	}

	info := fmt.Sprintf(" %s · %s", src, humanize.Time(m.state.LoadedAt))
	if q := m.filter.Value(); q != "" {
		info += fmt.Sprintf(" · filter %q", q)
	}

	return truncate(logo+styles.GrayFg(info), m.width)
}

func (m *Model) body() string {
	h := m.bodyHeight()

	if m.state == nil {
		text := "Loading…"
		if m.err != nil {
			text = "Failed to load catalog."
		}

		return pad(styles.GrayFg(text), h)
	}

	if len(m.lines) == 0 {
		return pad(styles.GrayFg("No entries."), h)
	}

	end := len(m.lines)
	if h > 0 {
		end = min(end, m.offset+h)
	}

	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		l := m.lines[i]
		if i == m.cursor {
			rows = append(rows, styles.SelectedStyle.Render(cursorMark+ansi.Strip(l.Text)))

			continue
		}

		rows = append(rows, strings.Repeat(" ", len(cursorMark))+l.Text)
	}

	return pad(strings.Join(rows, "\n"), h)
}

func (m *Model) help() string {
	return styles.HelpStyle.Render(m.kb.help(max(m.width, 60)))
}

func (m *Model) statusBar() string {
	var bar string

	switch {
	case m.filtering:
		bar = m.filter.View()

	case m.err != nil:
		bar = styles.ErrorStyle.Render(errorText) +
			styles.StatusBarStyle.Render(" "+firstLine(m.err.Error()))

	case m.message != "":
		bar = styles.MessageStyle.Render(" " + m.message + " ")

	default:
		bar = styles.StatusBarStyle.Render(helpText) + styles.StatusBarStyle.Render(" "+m.position())
	}

	return truncate(bar, m.width)
}

func (m *Model) position() string {
	if len(m.lines) == 0 {
		return "0/0"
	}

	return fmt.Sprintf("%d/%d", m.cursor+1, len(m.lines))
}

// bodyHeight returns the number of sidebar rows that fit on screen, or 0
// when the size is not known yet.
func (m *Model) bodyHeight() int {
	if m.height <= 0 {
		return 0
	}

	h := m.height - 2
	if m.showHelp {
		h -= lipgloss.Height(m.help())
	}

	return max(1, h)
}

func pad(s string, height int) string {
	if height <= 0 {
		return s
	}

	n := lipgloss.Height(s)
	if n >= height {
		return s
	}

	return s + strings.Repeat("\n", height-n)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}

	return ansi.Truncate(s, width, "…")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")

	return line
}
