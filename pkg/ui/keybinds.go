package ui

import (
	"fmt"

	"github.com/macropower/storysort/pkg/keys"
)

// KeyBinds holds the key bindings of the browser.
type KeyBinds struct {
	Quit        *keys.KeyBind `json:"quit,omitempty"`
	Help        *keys.KeyBind `json:"help,omitempty"`
	Up          *keys.KeyBind `json:"up,omitempty"`
	Down        *keys.KeyBind `json:"down,omitempty"`
	PageUp      *keys.KeyBind `json:"pageUp,omitempty"`
	PageDown    *keys.KeyBind `json:"pageDown,omitempty"`
	Home        *keys.KeyBind `json:"home,omitempty"`
	End         *keys.KeyBind `json:"end,omitempty"`
	Filter      *keys.KeyBind `json:"filter,omitempty"`
	ClearFilter *keys.KeyBind `json:"clearFilter,omitempty"`
	Copy        *keys.KeyBind `json:"copy,omitempty"`
	Reload      *keys.KeyBind `json:"reload,omitempty"`
	ToggleRoots *keys.KeyBind `json:"toggleRoots,omitempty"`
	Logs        *keys.KeyBind `json:"logs,omitempty"`
}

// NewKeyBinds returns the default [KeyBinds].
func NewKeyBinds() *KeyBinds {
	kb := &KeyBinds{}
	kb.EnsureDefaults()

	return kb
}

// EnsureDefaults sets every unset binding to its default.
func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefault(&kb.Quit, keys.NewBind("quit",
		keys.New("q"),
		keys.New("ctrl+c", keys.Hidden()),
	))
	keys.SetDefault(&kb.Help, keys.NewBind("toggle help",
		keys.New("?"),
	))
	keys.SetDefault(&kb.Up, keys.NewBind("move up",
		keys.New("up", keys.WithAlias("↑")),
		keys.New("k"),
	))
	keys.SetDefault(&kb.Down, keys.NewBind("move down",
		keys.New("down", keys.WithAlias("↓")),
		keys.New("j"),
	))
	keys.SetDefault(&kb.PageUp, keys.NewBind("page up",
		keys.New("pgup"),
		keys.New("b", keys.Hidden()),
	))
	keys.SetDefault(&kb.PageDown, keys.NewBind("page down",
		keys.New("pgdown"),
		keys.New("f", keys.Hidden()),
	))
	keys.SetDefault(&kb.Home, keys.NewBind("go to top",
		keys.New("home"),
		keys.New("g"),
	))
	keys.SetDefault(&kb.End, keys.NewBind("go to bottom",
		keys.New("end"),
		keys.New("G"),
	))
	keys.SetDefault(&kb.Filter, keys.NewBind("filter",
		keys.New("/"),
	))
	keys.SetDefault(&kb.ClearFilter, keys.NewBind("clear filter",
		keys.New("esc"),
	))
	keys.SetDefault(&kb.Copy, keys.NewBind("copy id",
		keys.New("c"),
		keys.New("y", keys.Hidden()),
	))
	keys.SetDefault(&kb.Reload, keys.NewBind("reload",
		keys.New("r"),
	))
	keys.SetDefault(&kb.ToggleRoots, keys.NewBind("toggle roots",
		keys.New("s"),
	))
	keys.SetDefault(&kb.Logs, keys.NewBind("toggle logs",
		keys.New("l"),
	))
}

// Validate checks that no key is bound twice.
func (kb *KeyBinds) Validate() error {
	err := keys.Validate(
		kb.Quit, kb.Help, kb.Up, kb.Down, kb.PageUp, kb.PageDown, kb.Home, kb.End,
		kb.Filter, kb.ClearFilter, kb.Copy, kb.Reload, kb.ToggleRoots, kb.Logs,
	)
	if err != nil {
		return fmt.Errorf("invalid key binds: %w", err)
	}

	return nil
}

func (kb *KeyBinds) help(width int) string {
	r := &keys.Renderer{}
	r.AddColumn(kb.Up, kb.Down, kb.PageUp, kb.PageDown, kb.Home, kb.End)
	r.AddColumn(kb.Filter, kb.ClearFilter, kb.Copy, kb.ToggleRoots)
	r.AddColumn(kb.Reload, kb.Logs, kb.Help, kb.Quit)

	return r.Render(width)
}
