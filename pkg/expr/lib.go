package expr

import (
	"path"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/ast"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	"github.com/google/cel-go/ext"

	"github.com/macropower/storysort/pkg/catalog"
	"github.com/macropower/storysort/pkg/order"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Strings(),
		ext.Lists(),

		cel.Constant("entry.STORY", types.StringType, types.String(catalog.TypeStory)),
		cel.Constant("entry.DOCS", types.StringType, types.String(catalog.TypeDocs)),

		// `hasAny` macro and function for checking tag membership.
		// Example: tags.hasAny("autodocs").
		// Example: tags.hasAny("beta", "experimental").
		cel.Macros(
			cel.ReceiverVarArgMacro("hasAny", hasAnyVarArgMacro),
		),
		cel.Function("@hasAny",
			cel.Overload("@hasAny_list_string",
				[]*cel.Type{cel.ListType(cel.StringType), cel.StringType}, cel.BoolType,
				cel.BinaryBinding(func(list, want ref.Val) ref.Val {
					container, ok := list.(traits.Container)
					if !ok {
						return types.NewErr("hasAny: invalid list")
					}

					return types.Bool(container.Contains(want) == types.True)
				}),
			),
			cel.Overload("@hasAny_list_list",
				[]*cel.Type{cel.ListType(cel.StringType), cel.ListType(cel.StringType)}, cel.BoolType,
				cel.BinaryBinding(func(list, wants ref.Val) ref.Val {
					container, ok := list.(traits.Container)
					if !ok {
						return types.NewErr("hasAny: invalid list")
					}

					wantList, ok := wants.(traits.Lister)
					if !ok {
						return types.NewErr("hasAny: invalid arguments")
					}

					it := wantList.Iterator()
					for it.HasNext() == types.True {
						if container.Contains(it.Next()) == types.True {
							return types.True
						}
					}

					return types.False
				}),
			),
		),

		// `kindSegments` splits a kind into its path segments.
		// Example: kindSegments(kind)[0] == "Forms".
		cel.Function("kindSegments",
			cel.Overload("kind_segments", []*cel.Type{cel.StringType}, cel.ListType(cel.StringType),
				cel.UnaryBinding(func(kind ref.Val) ref.Val {
					kindValue, ok := kind.Value().(string)
					if !ok {
						return types.NewErr("kindSegments: invalid string value")
					}

					return types.NewStringList(types.DefaultTypeAdapter,
						strings.Split(kindValue, order.DefaultSeparator))
				}),
			),
		),

		// `kindDepth` returns the number of segments in a kind.
		// Example: kindDepth(kind) <= 2.
		cel.Function("kindDepth",
			cel.Overload("kind_depth", []*cel.Type{cel.StringType}, cel.IntType,
				cel.UnaryBinding(func(kind ref.Val) ref.Val {
					kindValue, ok := kind.Value().(string)
					if !ok {
						return types.NewErr("kindDepth: invalid string value")
					}

					return types.Int(strings.Count(kindValue, order.DefaultSeparator) + 1)
				}),
			),
		),

		// `kindRoot` returns the first segment of a kind.
		// Example: kindRoot(kind) in ["Forms", "Buttons"].
		cel.Function("kindRoot",
			cel.Overload("kind_root", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(kind ref.Val) ref.Val {
					kindValue, ok := kind.Value().(string)
					if !ok {
						return types.NewErr("kindRoot: invalid string value")
					}

					root, _, _ := strings.Cut(kindValue, order.DefaultSeparator)

					return types.String(root)
				}),
			),
		),

		// `kindLeaf` returns the last segment of a kind.
		// Example: kindLeaf(kind) != "_internals".
		cel.Function("kindLeaf",
			cel.Overload("kind_leaf", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(kind ref.Val) ref.Val {
					kindValue, ok := kind.Value().(string)
					if !ok {
						return types.NewErr("kindLeaf: invalid string value")
					}

					i := strings.LastIndex(kindValue, order.DefaultSeparator)

					return types.String(kindValue[i+1:])
				}),
			),
		),

		// `pathBase` returns the last element of an import path.
		// Example: pathBase(importPath).startsWith("button").
		cel.Function("pathBase",
			cel.Overload("path_base", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(p ref.Val) ref.Val {
					pathValue, ok := p.Value().(string)
					if !ok {
						return types.NewErr("pathBase: invalid string value")
					}

					return types.String(path.Base(pathValue))
				}),
			),
		),

		// `pathDir` returns all but the last element of an import path.
		// Example: pathDir(importPath).contains("/forms").
		cel.Function("pathDir",
			cel.Overload("path_dir", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(p ref.Val) ref.Val {
					pathValue, ok := p.Value().(string)
					if !ok {
						return types.NewErr("pathDir: invalid string value")
					}

					return types.String(path.Dir(pathValue))
				}),
			),
		),

		// `pathExt` returns the file extension of an import path.
		// Example: pathExt(importPath) == ".mdx".
		cel.Function("pathExt",
			cel.Overload("path_ext", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(p ref.Val) ref.Val {
					pathValue, ok := p.Value().(string)
					if !ok {
						return types.NewErr("pathExt: invalid string value")
					}

					return types.String(path.Ext(pathValue))
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

//nolint:ireturn // Following CEL's function signature.
func hasAnyVarArgMacro(meh cel.MacroExprFactory, target ast.Expr, args []ast.Expr) (ast.Expr, *cel.Error) {
	switch len(args) {
	case 0:
		return nil, meh.NewError(target.ID(), "hasAny() requires at least one argument")
	case 1:
		return meh.NewCall("@hasAny", target, args[0]), nil
	default:
		return meh.NewCall("@hasAny", target, meh.NewList(args...)), nil
	}
}
