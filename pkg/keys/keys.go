// Package keys describes key bindings and renders them as help text.
package keys

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const ellipsis = "…"

// ErrDuplicateKey is returned when a key is bound to more than one action.
var ErrDuplicateKey = errors.New("duplicate key binding")

// Key is a single key, as reported by [tea.KeyMsg.String].
type Key struct {
	// Code is the key code, e.g. "ctrl+c" or "/".
	Code string `json:"code"`
	// Alias is shown instead of Code in help text.
	Alias string `json:"alias,omitempty"`
	// Hidden keys work but are not shown in help text.
	Hidden bool `json:"hidden,omitempty"`
}

// KeyOpt configures a [Key].
type KeyOpt func(k *Key)

// New creates a [Key] for code.
func New(code string, opts ...KeyOpt) Key {
	k := Key{Code: code}
	for _, opt := range opts {
		opt(&k)
	}

	return k
}

// WithAlias sets the text shown for the key in help text.
func WithAlias(alias string) KeyOpt {
	return func(k *Key) {
		k.Alias = alias
	}
}

// Hidden hides the key from help text.
func Hidden() KeyOpt {
	return func(k *Key) {
		k.Hidden = true
	}
}

func (k Key) String() string {
	if k.Alias != "" {
		return k.Alias
	}

	return k.Code
}

// KeyBind binds one or more keys to an action.
type KeyBind struct {
	Description string `json:"description"`
	Keys        []Key  `json:"keys"`
}

// NewBind creates a [KeyBind].
func NewBind(description string, keys ...Key) *KeyBind {
	return &KeyBind{
		Description: description,
		Keys:        keys,
	}
}

// String joins the visible keys with "/".
func (kb *KeyBind) String() string {
	keys := []string{}
	for _, k := range kb.Keys {
		if !k.Hidden {
			keys = append(keys, k.String())
		}
	}

	return strings.Join(keys, "/")
}

// Match reports whether key triggers the binding.
func (kb *KeyBind) Match(key string) bool {
	if kb == nil {
		return false
	}

	return slices.ContainsFunc(kb.Keys, func(k Key) bool {
		return k.Code == key
	})
}

// row renders the binding padded to keyWidth and descWidth cells. It returns
// an empty string when every key is hidden.
func (kb *KeyBind) row(keyWidth, descWidth int) string {
	keys := kb.String()
	if keys == "" {
		return ""
	}

	desc := ansi.Truncate(kb.Description, max(0, descWidth-2), ellipsis)

	return keys + strings.Repeat(" ", max(0, keyWidth-ansi.StringWidth(keys))) +
		"  " + desc + strings.Repeat(" ", max(0, descWidth-ansi.StringWidth(desc)-2))
}

// IsTextInputAction reports whether key should be passed to a focused text
// input rather than handled as a binding.
func IsTextInputAction(key string) bool {
	return !slices.Contains([]string{"esc", "enter", "up", "down", "pgup", "pgdown"}, key)
}

// Renderer lays out key bindings in columns.
type Renderer struct {
	columns [][]*KeyBind
}

// AddColumn adds a column of bindings. Empty columns are ignored.
func (r *Renderer) AddColumn(kbs ...*KeyBind) {
	if len(kbs) > 0 {
		r.columns = append(r.columns, kbs)
	}
}

// Render renders the columns side by side in width cells.
func (r *Renderer) Render(width int) string {
	if len(r.columns) == 0 {
		return ""
	}

	colWidth := max(6, width/len(r.columns)-2)

	cols := make([][]string, len(r.columns))
	rows := 0

	for i, col := range r.columns {
		cols[i] = column(colWidth, col...)
		rows = max(rows, len(cols[i]))
	}

	lines := make([]string, 0, rows)
	for row := range rows {
		var sb strings.Builder
		for _, col := range cols {
			cell := strings.Repeat(" ", colWidth)
			if row < len(col) {
				cell = col[row]
			}

			sb.WriteString(" " + cell + " ")
		}

		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}

	return strings.Join(lines, "\n")
}

func column(width int, kbs ...*KeyBind) []string {
	keyWidth := 0
	for _, kb := range kbs {
		keyWidth = max(keyWidth, ansi.StringWidth(kb.String()))
	}

	rows := []string{}
	for _, kb := range kbs {
		row := kb.row(keyWidth, width-keyWidth)
		if row != "" {
			rows = append(rows, row)
		}
	}

	return rows
}

// Validate returns an error for every key that is bound more than once.
func Validate(kbs ...*KeyBind) error {
	var errs []error

	seen := map[string]bool{}
	for _, kb := range kbs {
		if kb == nil {
			continue
		}

		for _, k := range kb.Keys {
			if seen[k.Code] {
				errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateKey, k.Code))
			}

			seen[k.Code] = true
		}
	}

	return errors.Join(errs...)
}

// SetDefault fills kb from def. A nil binding is replaced, and a binding
// without keys or description takes them from def.
func SetDefault(kb **KeyBind, def *KeyBind) {
	if *kb == nil {
		c := *def
		*kb = &c

		return
	}

	if len((*kb).Keys) == 0 {
		(*kb).Keys = def.Keys
	}
	if (*kb).Description == "" {
		(*kb).Description = def.Description
	}
}
