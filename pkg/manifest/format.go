package manifest

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

var (
	tagStyle  = lipgloss.NewStyle().Bold(true)
	metaStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"})
)

// Write prints elements to w, wrapping descriptions at width.
func Write(w io.Writer, elements []Element, width int) error {
	for i, e := range elements {
		var b strings.Builder

		if i > 0 {
			b.WriteByte('\n')
		}

		fmt.Fprintf(&b, "%s %s\n",
			tagStyle.Render("<"+e.TagName+">"),
			metaStyle.Render(e.ClassName+" ("+e.Module+")"),
		)

		if e.Description != "" {
			b.WriteString(indent.String(wordwrap.String(e.Description, max(width-2, 20)), 2))
			b.WriteByte('\n')
		}

		for _, a := range e.Attributes {
			line := "- " + a.Name
			if t := a.TypeText(); t != "" {
				line += ": " + t
			}
			if a.Default != "" {
				line += " = " + a.Default
			}

			b.WriteString(indent.String(line, 2))
			b.WriteByte('\n')
		}

		_, err := io.WriteString(w, b.String())
		if err != nil {
			return fmt.Errorf("write elements: %w", err)
		}
	}

	return nil
}
