// Package config loads storysort configuration documents.
//
// A [Loader] decodes, schema-validates and defaults any [v1beta1.Object].
// [Resolve] locates the preview configuration to use for a target path.
package config
