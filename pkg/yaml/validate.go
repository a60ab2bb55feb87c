package yaml

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator validates decoded YAML against a JSON schema.
// Uses [github.com/santhosh-tekuri/jsonschema/v6].
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaData, registered under url.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	var doc any

	err := json.Unmarshal(schemaData, &doc)
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()

	err = compiler.AddResource(url, doc)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// MustNewValidator is like [NewValidator] but panics on error. It is meant for
// schemas embedded at build time.
func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate validates data, which should be the result of decoding YAML into
// an `any`. Failures are returned as an [*Error] whose Path points at the most
// specific failing location, so it can be annotated against the source.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(normalize(data))
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	return &Error{
		Err:  validationErr,
		Path: pathFromLocation(deepestLocation(validationErr)),
	}
}

// deepestLocation returns the longest instance location among the error and
// all of its causes.
func deepestLocation(err *jsonschema.ValidationError) []string {
	deepest := err.InstanceLocation

	for _, cause := range err.Causes {
		loc := deepestLocation(cause)
		if len(loc) > len(deepest) {
			deepest = loc
		}
	}

	return deepest
}

func pathFromLocation(location []string) *yaml.Path {
	pb := NewPathBuilder().Root()

	for _, part := range location {
		idx, err := strconv.ParseUint(part, 10, 0)
		if err == nil {
			pb = pb.Index(uint(idx))
			continue
		}

		pb = pb.Child(part)
	}

	return pb.Build()
}

// normalize converts decoded YAML into the types the JSON schema validator
// understands: string-keyed maps and JSON numbers.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}

		return out

	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}

		return out

	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}

		return out

	case uint64:
		return json.Number(strconv.FormatUint(val, 10))

	case int64:
		return json.Number(strconv.FormatInt(val, 10))

	case int:
		return json.Number(strconv.Itoa(val))

	case float64:
		return json.Number(strconv.FormatFloat(val, 'g', -1, 64))
	}

	return v
}
