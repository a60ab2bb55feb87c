package sidebar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/macropower/storysort/pkg/catalog"
)

const (
	iconExpanded = "▾"
	iconStory    = "•"
	iconDocs     = "≡"
	indent       = "  "
	ellipsis     = "…"
)

// Styles used when rendering a [Tree].
type Styles struct {
	Root  lipgloss.Style
	Group lipgloss.Style
	Story lipgloss.Style
	Docs  lipgloss.Style
}

// DefaultStyles returns the default sidebar [Styles].
func DefaultStyles() Styles {
	return Styles{
		Root:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#909090", Dark: "#979797"}),
		Group: lipgloss.NewStyle().Bold(true),
		Story: lipgloss.NewStyle(),
		Docs:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"}),
	}
}

// PlainStyles returns [Styles] that add no escape sequences.
func PlainStyles() Styles {
	return Styles{
		Root:  lipgloss.NewStyle(),
		Group: lipgloss.NewStyle(),
		Story: lipgloss.NewStyle(),
		Docs:  lipgloss.NewStyle(),
	}
}

// RenderOpt configures [Tree.Render].
type RenderOpt func(*renderOptions)

type renderOptions struct {
	styles    Styles
	width     int
	showRoots bool
}

// WithShowRoots renders top-level groups as section headers.
func WithShowRoots(show bool) RenderOpt {
	return func(o *renderOptions) {
		o.showRoots = show
	}
}

// WithWidth truncates each line to width cells. Zero disables truncation.
func WithWidth(width int) RenderOpt {
	return func(o *renderOptions) {
		o.width = width
	}
}

// WithStyles sets the styles used for each kind of line.
func WithStyles(s Styles) RenderOpt {
	return func(o *renderOptions) {
		o.styles = s
	}
}

// Line is a single rendered row of the sidebar.
type Line struct {
	// Node is set for group rows.
	Node *Node
	// Entry is set for entry rows.
	Entry *catalog.Entry
	// Text is the styled row.
	Text string
	// Root is true for section header rows.
	Root bool
}

// Lines renders the tree into rows.
//
// With roots shown, every top-level node that has children becomes an
// upper-case section header and its children start at the left margin.
// Otherwise top-level nodes are rendered like any other group.
func (t *Tree) Lines(opts ...RenderOpt) []Line {
	o := &renderOptions{styles: DefaultStyles()}
	for _, opt := range opts {
		opt(o)
	}

	lines := []Line{}
	add := func(l Line) {
		if o.width > 0 {
			l.Text = ansi.Truncate(l.Text, o.width, ellipsis)
		}

		lines = append(lines, l)
	}

	var walk func(n *Node, level int)
	walk = func(n *Node, level int) {
		pad := strings.Repeat(indent, level)
		add(Line{
			Node: n,
			Text: pad + o.styles.Group.Render(iconExpanded+" "+n.Name),
		})

		for i := range n.Entries {
			e := &n.Entries[i]
			add(Line{Entry: e, Text: pad + indent + renderEntry(o.styles, e)})
		}

		for _, c := range n.Children {
			walk(c, level+1)
		}
	}

	for i, n := range t.Roots() {
		if !o.showRoots || n.IsLeaf() {
			walk(n, 0)

			continue
		}

		if i > 0 {
			add(Line{Text: ""})
		}

		add(Line{Node: n, Root: true, Text: o.styles.Root.Render(strings.ToUpper(n.Name))})

		for j := range n.Entries {
			e := &n.Entries[j]
			add(Line{Entry: e, Text: renderEntry(o.styles, e)})
		}

		for _, c := range n.Children {
			walk(c, 0)
		}
	}

	return lines
}

// Render renders the tree as text, one row per line.
func (t *Tree) Render(opts ...RenderOpt) string {
	lines := t.Lines(opts...)

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}

	return b.String()
}

func renderEntry(s Styles, e *catalog.Entry) string {
	name := e.Name
	if name == "" {
		name = e.ID
	}

	if e.Type == catalog.TypeDocs {
		return s.Docs.Render(iconDocs + " " + name)
	}

	return s.Story.Render(iconStory + " " + name)
}
