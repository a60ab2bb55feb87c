package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator generates a JSON schema from a Go type.
type SchemaGenerator struct {
	obj       any
	reflector *jsonschema.Reflector
	id        jsonschema.ID
}

// NewSchemaGenerator creates a [SchemaGenerator] for the type of obj. The id
// becomes the schema's $id; it may be empty.
func NewSchemaGenerator(obj any, id string) *SchemaGenerator {
	return &SchemaGenerator{
		obj: obj,
		id:  jsonschema.ID(id),
		reflector: &jsonschema.Reflector{
			RequiredFromJSONSchemaTags: true,
		},
	}
}

// Generate returns the indented JSON schema.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	s := g.reflector.Reflect(g.obj)
	if g.id != "" {
		s.ID = g.id
	}

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(b, '\n'), nil
}
