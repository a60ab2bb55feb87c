package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml/ast"

	"github.com/macropower/storysort/pkg/yaml"
)

var (
	// ErrNoEntries is returned when a document has no entries field.
	ErrNoEntries = errors.New("missing entries")

	// ErrInvalidEntry is returned for an entry without a kind.
	ErrInvalidEntry = errors.New("invalid entry")
)

// indexEntry is an entry in the viewer index format, where the kind is
// called the title.
type indexEntry struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Name       string   `json:"name"`
	ImportPath string   `json:"importPath"`
	Type       string   `json:"type"`
	Tags       []string `json:"tags"`
}

// Load parses a catalog from YAML or JSON.
//
// Two layouts are accepted. The viewer index maps IDs to entries:
//
//	{"v": 5, "entries": {"intro--docs": {"title": "Intro", "name": "Docs"}}}
//
// The list layout holds entries in a sequence:
//
//	entries:
//	  - kind: Intro
//	    name: Docs
//
// Entry order is the order of the source document in both layouts.
func Load(data []byte) (*Catalog, error) {
	file, err := yaml.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return nil, ErrNoEntries
	}

	root := mappingValues(file.Docs[0].Body)

	c := &Catalog{}

	var entries ast.Node
	for _, mv := range root {
		switch mv.Key.GetToken().Value {
		case "v":
			err = yaml.NodeToValue(mv.Value, &c.Version)
			if err != nil {
				return nil, fmt.Errorf("decode version: %w", err)
			}
		case "entries":
			entries = mv.Value
		}
	}

	switch n := entries.(type) {
	case nil:
		return nil, ErrNoEntries

	case *ast.SequenceNode:
		err = loadList(c, n)

	case *ast.MappingNode, *ast.MappingValueNode:
		err = loadIndex(c, mappingValues(n))

	default:
		return nil, fmt.Errorf("%w: entries must be a list or a mapping, got %s", ErrInvalidEntry, n.Type())
	}
	if err != nil {
		return nil, err
	}

	return c, nil
}

// LoadFile reads a catalog from path. A path of "-" reads from stdin.
func LoadFile(path string) (*Catalog, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // G304: Reading user-supplied catalog.
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	c, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

func loadList(c *Catalog, seq *ast.SequenceNode) error {
	entries := []Entry{}

	err := yaml.NodeToValue(seq, &entries)
	if err != nil {
		return fmt.Errorf("decode entries: %w", err)
	}

	for i, e := range entries {
		if e.Kind == "" {
			return fmt.Errorf("%w at index %d: kind is required", ErrInvalidEntry, i)
		}
		if e.ID == "" {
			e.ID = ID(e.Kind, e.Name)
		}

		c.Entries = append(c.Entries, e)
	}

	return nil
}

func loadIndex(c *Catalog, values []*ast.MappingValueNode) error {
	for _, mv := range values {
		key := mv.Key.GetToken().Value

		var ie indexEntry

		err := yaml.NodeToValue(mv.Value, &ie)
		if err != nil {
			return fmt.Errorf("decode entry %q: %w", key, err)
		}
		if ie.Title == "" {
			return fmt.Errorf("%w %q: title is required", ErrInvalidEntry, key)
		}

		id := ie.ID
		if id == "" {
			id = key
		}

		c.Entries = append(c.Entries, Entry{
			ID:         id,
			Kind:       ie.Title,
			Name:       ie.Name,
			ImportPath: ie.ImportPath,
			Type:       ie.Type,
			Tags:       ie.Tags,
		})
	}

	return nil
}

// mappingValues returns the key/value pairs of a mapping node in source
// order. A single pair may be parsed as a bare [*ast.MappingValueNode].
func mappingValues(n ast.Node) []*ast.MappingValueNode {
	switch m := n.(type) {
	case *ast.MappingNode:
		return m.Values
	case *ast.MappingValueNode:
		return []*ast.MappingValueNode{m}
	}

	return nil
}
