// Package mcp serves the ordered catalog to Model Context Protocol clients.
package mcp

import "github.com/google/jsonschema-go/jsonschema"

const (
	name         = "storysort"
	instructions = `MCP Server 'storysort' exposes the sidebar order of a component catalog, as configured by its preview configuration.

When to use these tools:
- Checking where a story or docs page will appear in the sidebar
- Verifying the effect of a change to the storySort order rules
- Finding entries by kind, tag, or import path

REQUIRED workflow:
1. Use 'list_entries' first to see every entry in sidebar order
2. Use 'compare_kinds' or 'sort_kinds' to check how specific kinds are ordered
3. Use 'get_sidebar' to see the rendered sidebar tree

IMPORTANT: After editing the preview configuration or the catalog, call 'list_entries' again. Results reflect the files on disk at the time of the call.
`

	// Maximum length of the rendered sidebar returned by get_sidebar.
	maxSidebarLen = 20000
)

func newKindSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: desc,
	}
}

// truncateString truncates a string to maxLen bytes with a marker if needed.
func truncateString(str string, maxLen int) string {
	if len(str) > maxLen {
		return str[:maxLen] + "\n[OUTPUT TRUNCATED]"
	}

	return str
}
