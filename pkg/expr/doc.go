// Package expr provides CEL (Common Expression Language) functionality
// for evaluating expressions against catalog entries.
//
// It creates CEL environments with custom functions for:
//   - Kind operations (kindSegments, kindDepth, kindRoot, kindLeaf)
//   - Import path operations (pathBase, pathDir, pathExt)
//   - Tag checks (tags.hasAny)
//
// The constants entry.STORY and entry.DOCS hold the entry type names.
package expr
