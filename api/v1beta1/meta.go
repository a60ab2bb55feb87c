// Package v1beta1 contains the v1beta1 API types for storysort configuration.
package v1beta1

import (
	"errors"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
)

// APIVersion is the current API version for all storysort configuration kinds.
const APIVersion = "storysort.macropower.dev/v1beta1"

var (
	// ValidAPIVersions contains all valid API versions.
	ValidAPIVersions = []string{APIVersion}

	ErrUnknownAPIVersion = errors.New("unknown apiVersion")
	ErrUnknownKind       = errors.New("unknown kind")
)

// TypeMeta contains the API version and kind metadata common to all config types.
type TypeMeta struct {
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

// NewTypeMeta returns a [TypeMeta] for kind at the current [APIVersion].
func NewTypeMeta(kind string) TypeMeta {
	return TypeMeta{APIVersion: APIVersion, Kind: kind}
}

func (tm TypeMeta) GetAPIVersion() string {
	return tm.APIVersion
}

func (tm TypeMeta) GetKind() string {
	return tm.Kind
}

// Check returns an error if the API version is not in [ValidAPIVersions] or
// the kind is not in kinds.
func (tm TypeMeta) Check(kinds ...string) error {
	if !slices.Contains(ValidAPIVersions, tm.APIVersion) {
		return fmt.Errorf("%w: %q", ErrUnknownAPIVersion, tm.APIVersion)
	}
	if !slices.Contains(kinds, tm.Kind) {
		return fmt.Errorf("%w: %q", ErrUnknownKind, tm.Kind)
	}

	return nil
}

// Object is the interface that all config types implement.
type Object interface {
	GetAPIVersion() string
	GetKind() string
	EnsureDefaults()
}

// ExtendSchemaWithEnums constrains the apiVersion and kind properties of a
// generated JSON schema to the given values.
func ExtendSchemaWithEnums(jss *jsonschema.Schema, apiVersions, kinds []string) {
	for prop, values := range map[string][]string{
		"apiVersion": apiVersions,
		"kind":       kinds,
	} {
		s, ok := jss.Properties.Get(prop)
		if !ok {
			panic(fmt.Sprintf("%s property not found in schema", prop))
		}

		for _, v := range values {
			s.OneOf = append(s.OneOf, &jsonschema.Schema{
				Type:  "string",
				Const: v,
				Title: s.Title,
			})
		}

		jss.Properties.Set(prop, s)
	}
}
