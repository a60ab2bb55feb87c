package catalog

import (
	"strings"
	"unicode"
)

// ID derives an entry ID from its kind and name, e.g. kind "Forms/Buttons"
// and name "Primary" give "forms-buttons--primary".
func ID(kind, name string) string {
	k := sanitize(kind)
	if name == "" {
		return k
	}

	return k + "--" + sanitize(name)
}

// sanitize lowercases s and collapses every run of characters other than
// letters and digits into a single dash.
func sanitize(s string) string {
	var b strings.Builder

	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}

			dash = false

			b.WriteRune(r)

			continue
		}

		dash = true
	}

	return b.String()
}
