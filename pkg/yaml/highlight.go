package yaml

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
)

const (
	DefaultFormatter = "terminal256"
	DefaultStyle     = "onedark"
)

// Highlight writes src to w with YAML syntax highlighting.
// Empty formatter or style names select the defaults.
func Highlight(w io.Writer, src []byte, formatter, style string) error {
	if formatter == "" {
		formatter = DefaultFormatter
	}
	if style == "" {
		style = DefaultStyle
	}

	err := quick.Highlight(w, string(src), "yaml", formatter, style)
	if err != nil {
		return fmt.Errorf("highlight yaml: %w", err)
	}

	return nil
}
