// Package catalog models the stories and docs pages of a component catalog
// and orders them with an [order.Comparator].
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/macropower/storysort/pkg/order"
)

// Entry types used by the viewer index.
const (
	TypeStory = "story"
	TypeDocs  = "docs"
)

// Entry is a single story or docs page.
type Entry struct {
	// ID uniquely identifies the entry, e.g. "forms-buttons--primary".
	ID string `json:"id"`
	// Kind is the hierarchical path of the entry, e.g. "Forms/Buttons".
	Kind string `json:"kind"`
	// Name is the display name of the entry within its kind.
	Name       string   `json:"name,omitempty"`
	ImportPath string   `json:"importPath,omitempty"`
	Type       string   `json:"type,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// Segments splits the kind into its path segments.
func (e Entry) Segments(sep string) []string {
	if sep == "" {
		sep = order.DefaultSeparator
	}

	return strings.Split(e.Kind, sep)
}

// Path returns the kind and name joined by sep.
func (e Entry) Path(sep string) string {
	if e.Name == "" {
		return e.Kind
	}
	if sep == "" {
		sep = order.DefaultSeparator
	}

	return e.Kind + sep + e.Name
}

// HasTag reports whether the entry carries tag.
func (e Entry) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// Matcher decides whether an [Entry] is kept by [Catalog.Filter].
type Matcher interface {
	Match(e Entry) (bool, error)
}

// Catalog is an ordered list of entries.
type Catalog struct {
	Entries []Entry `json:"entries"`
	// Version is the index format version, when loaded from an index.
	Version int `json:"v,omitempty"`
}

// New creates a [Catalog] from entries, deriving missing IDs.
func New(entries ...Entry) *Catalog {
	c := &Catalog{Entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		if e.ID == "" {
			e.ID = ID(e.Kind, e.Name)
		}

		c.Entries = append(c.Entries, e)
	}

	return c
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.Entries)
}

// Clone returns a copy of the catalog that shares no entry slice.
func (c *Catalog) Clone() *Catalog {
	return &Catalog{
		Entries: slices.Clone(c.Entries),
		Version: c.Version,
	}
}

// Sort orders the entries by kind using cmp. Entries whose kinds compare
// equal keep their relative order. On error the entries are left in an
// unspecified order.
func (c *Catalog) Sort(cmp *order.Comparator) error {
	err := order.SortStable(cmp, c.Entries, func(e Entry) string {
		return e.Kind
	})
	if err != nil {
		return fmt.Errorf("sort catalog: %w", err)
	}

	return nil
}

// Filter returns a new catalog holding the entries m matches, in order.
func (c *Catalog) Filter(m Matcher) (*Catalog, error) {
	out := &Catalog{Version: c.Version}

	for _, e := range c.Entries {
		ok, err := m.Match(e)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", e.ID, err)
		}
		if ok {
			out.Entries = append(out.Entries, e)
		}
	}

	return out, nil
}

// Kinds returns the unique kinds in entry order.
func (c *Catalog) Kinds() []string {
	seen := make(map[string]struct{}, len(c.Entries))
	kinds := []string{}

	for _, e := range c.Entries {
		if _, ok := seen[e.Kind]; ok {
			continue
		}

		seen[e.Kind] = struct{}{}
		kinds = append(kinds, e.Kind)
	}

	return kinds
}

// Get returns the entry with the given ID.
func (c *Catalog) Get(id string) (Entry, bool) {
	i := slices.IndexFunc(c.Entries, func(e Entry) bool {
		return e.ID == id
	})
	if i < 0 {
		return Entry{}, false
	}

	return c.Entries[i], true
}
