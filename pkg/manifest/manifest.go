// Package manifest reads custom-elements.json manifests.
package manifest

import (
	"bytes"
	"cmp"
	"fmt"
	"os"
	"slices"

	"github.com/macropower/storysort/pkg/yaml"
)

// Declaration kinds.
const (
	KindClass    = "class"
	KindFunction = "function"
	KindMixin    = "mixin"
	KindVariable = "variable"
)

// Manifest is a custom elements manifest.
type Manifest struct {
	SchemaVersion string   `json:"schemaVersion"`
	Modules       []Module `json:"modules"`
}

// Module is a single JavaScript module of a [Manifest].
type Module struct {
	Kind         string        `json:"kind"`
	Path         string        `json:"path"`
	Declarations []Declaration `json:"declarations"`
}

// Declaration is a class, function, mixin or variable exported by a module.
type Declaration struct {
	Kind          string      `json:"kind"`
	Name          string      `json:"name"`
	TagName       string      `json:"tagName"`
	Description   string      `json:"description"`
	Summary       string      `json:"summary"`
	Attributes    []Attribute `json:"attributes"`
	CustomElement bool        `json:"customElement"`
}

// Attribute is an HTML attribute of a custom element.
type Attribute struct {
	Type *struct {
		Text string `json:"text"`
	} `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     string `json:"default"`
	FieldName   string `json:"fieldName"`
}

// TypeText returns the attribute's type expression, or an empty string.
func (a Attribute) TypeText() string {
	if a.Type == nil {
		return ""
	}

	return a.Type.Text
}

// Element is a custom element declared in a [Manifest].
type Element struct {
	TagName     string
	ClassName   string
	Module      string
	Description string
	Attributes  []Attribute
}

// Parse parses a manifest from JSON (or YAML) data.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}

	err := yaml.NewDecoder(bytes.NewReader(data)).Decode(m)
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	return m, nil
}

// Load reads the manifest at path. An empty path gives an empty manifest.
func Load(path string) (*Manifest, error) {
	if path == "" {
		return &Manifest{}, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Reading configured manifest.
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return m, nil
}

// Elements returns the declared custom elements sorted by tag name.
// Declarations marked as custom elements without a tag name are skipped.
func (m *Manifest) Elements() []Element {
	out := []Element{}

	for _, mod := range m.Modules {
		for _, d := range mod.Declarations {
			if !d.CustomElement || d.TagName == "" {
				continue
			}

			desc := d.Description
			if desc == "" {
				desc = d.Summary
			}

			out = append(out, Element{
				TagName:     d.TagName,
				ClassName:   d.Name,
				Module:      mod.Path,
				Description: desc,
				Attributes:  d.Attributes,
			})
		}
	}

	slices.SortStableFunc(out, func(a, b Element) int {
		return cmp.Compare(a.TagName, b.TagName)
	})

	return out
}

// Element returns the element with the given tag name.
func (m *Manifest) Element(tagName string) (Element, bool) {
	for _, e := range m.Elements() {
		if e.TagName == tagName {
			return e, true
		}
	}

	return Element{}, false
}
