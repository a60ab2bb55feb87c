package catalog

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

// Diff returns a unified diff between the entry order of before and after.
// Each line is an entry path joined with sep, or [order.DefaultSeparator]
// when sep is empty. It returns an empty string when the orders are the
// same.
func Diff(before, after *Catalog, sep string) string {
	return udiff.Unified("source", "sorted", lines(before, sep), lines(after, sep))
}

func lines(c *Catalog, sep string) string {
	var b strings.Builder
	for _, e := range c.Entries {
		b.WriteString(e.Path(sep))
		b.WriteByte('\n')
	}

	return b.String()
}
