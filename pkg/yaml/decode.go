package yaml

import (
	"errors"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// Decoder reads YAML (or JSON) values, converting [yaml.Error]s into [*Error]s
// that carry the offending token.
type Decoder struct {
	d *yaml.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		d: yaml.NewDecoder(r, yaml.AllowDuplicateMapKey(), yaml.UseJSONUnmarshaler()),
	}
}

func (d *Decoder) Decode(v any) error {
	return convertError(d.d.Decode(v))
}

// ParseBytes parses YAML source into an AST, keeping document order.
func ParseBytes(data []byte) (*ast.File, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, convertError(err)
	}

	return file, nil
}

// NodeToValue decodes a single AST node into v.
func NodeToValue(node ast.Node, v any) error {
	return convertError(yaml.NodeToValue(node, v, yaml.UseJSONUnmarshaler()))
}

func convertError(err error) error {
	if err == nil {
		return nil
	}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		return &Error{
			Err:   errors.New(yamlErr.GetMessage()),
			Token: yamlErr.GetToken(),
		}
	}

	//nolint:wrapcheck // Return the original error if it's not a [yaml.Error].
	return err
}
