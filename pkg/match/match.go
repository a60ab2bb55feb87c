// Package match filters catalog entries with CEL expressions.
package match

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/macropower/storysort/pkg/catalog"
	"github.com/macropower/storysort/pkg/expr"
)

// ErrNotBool is returned when an expression does not evaluate to a bool.
var ErrNotBool = errors.New("expression must return a bool")

var (
	envOnce sync.Once
	env     *expr.Environment
	envErr  error
)

func environment() (*expr.Environment, error) {
	envOnce.Do(func() {
		env, envErr = expr.NewEnvironment(
			cel.Variable("id", cel.StringType),
			cel.Variable("kind", cel.StringType),
			cel.Variable("name", cel.StringType),
			cel.Variable("importPath", cel.StringType),
			cel.Variable("entryType", cel.StringType),
			cel.Variable("tags", cel.ListType(cel.StringType)),
		)
	})

	return env, envErr
}

// Filter uses a CEL expression to decide whether an entry is kept.
//
// CEL expressions have access to variables:
//   - `id` (string): The entry ID, e.g. "forms-button--primary"
//   - `kind` (string): The hierarchical kind, e.g. "Forms/Button"
//   - `name` (string): The entry name within its kind
//   - `importPath` (string): The file the entry was loaded from
//   - `entryType` (string): entry.STORY or entry.DOCS
//   - `tags` (list<string>): The entry tags
//
// CEL expressions must return a boolean value:
//   - kindRoot(kind) == "Forms" - entries under Forms
//   - kindDepth(kind) <= 2 - entries at most two levels deep
//   - entryType == entry.DOCS - docs pages only
//   - tags.hasAny("beta", "experimental") - entries with either tag
//   - !kindSegments(kind).exists(s, s.startsWith("_")) - no internal groups
//   - pathExt(importPath) == ".mdx" - entries loaded from MDX files
type Filter struct {
	program cel.Program

	// Expression is the CEL source of the filter.
	Expression string `json:"expression" jsonschema:"title=Expression"`
}

// New compiles expression into a [Filter].
func New(expression string) (*Filter, error) {
	e, err := environment()
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	program, err := e.Compile(expression, cel.BoolType)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", expression, err)
	}

	return &Filter{Expression: expression, program: program}, nil
}

// Compile compiles every expression into an [All], so an entry is kept
// only when all of them match.
func Compile(expressions ...string) (All, error) {
	a := make(All, 0, len(expressions))
	for _, expression := range expressions {
		f, err := New(expression)
		if err != nil {
			return nil, err
		}

		a = append(a, f)
	}

	return a, nil
}

// Match evaluates the filter against e.
func (f *Filter) Match(e catalog.Entry) (bool, error) {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}

	result, _, err := f.program.Eval(map[string]any{
		"id":         e.ID,
		"kind":       e.Kind,
		"name":       e.Name,
		"importPath": e.ImportPath,
		"entryType":  e.Type,
		"tags":       tags,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", f.Expression, err)
	}

	b, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w, got %T", ErrNotBool, result.Value())
	}

	return b, nil
}

func (f *Filter) String() string {
	return f.Expression
}

// All combines filters into one that matches when every filter matches.
type All []catalog.Matcher

// Match reports whether every filter matches e.
func (a All) Match(e catalog.Entry) (bool, error) {
	for _, m := range a {
		ok, err := m.Match(e)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}
