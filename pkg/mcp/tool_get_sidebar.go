package mcp

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize/english"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/storysort/pkg/sidebar"
)

// GetSidebarParams defines parameters for the get_sidebar tool.
type GetSidebarParams struct {
	ShowRoots *bool `json:"showRoots,omitempty"`
}

// GetSidebarResult contains the rendered sidebar.
type GetSidebarResult struct {
	Error      string `json:"error,omitempty"`
	Message    string `json:"message"`
	Sidebar    string `json:"sidebar"`
	EntryCount int    `json:"entryCount"`
}

// handleGetSidebar handles the get_sidebar tool call.
func (s *Server) handleGetSidebar(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[GetSidebarParams],
) (*mcp.CallToolResultFor[GetSidebarResult], error) {
	result := GetSidebarResult{}

	state, err := s.current(ctx)
	if err != nil {
		result.Error = err.Error()

		return createGetSidebarResult(result), nil
	}

	showRoots := state.ShowRoots
	if params.Arguments.ShowRoots != nil {
		showRoots = *params.Arguments.ShowRoots
	}

	tree := sidebar.Build(state.Catalog.Entries, state.Comparator.Separator())

	result.Sidebar = truncateString(tree.Render(
		sidebar.WithShowRoots(showRoots),
		sidebar.WithStyles(sidebar.PlainStyles()),
	), maxSidebarLen)
	result.EntryCount = state.Catalog.Len()

	return createGetSidebarResult(result), nil
}

// createGetSidebarResult creates the MCP tool result from GetSidebarResult.
func createGetSidebarResult(result GetSidebarResult) *mcp.CallToolResultFor[GetSidebarResult] {
	msg := fmt.Sprintf("Rendered sidebar with %s.", english.Plural(result.EntryCount, "entry", ""))
	if result.Error != "" {
		msg = "Failed to render sidebar: " + result.Error
	}

	result.Message = msg

	text := msg
	if result.Sidebar != "" {
		text = msg + "\n\n" + result.Sidebar
	}

	return &mcp.CallToolResultFor[GetSidebarResult]{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: text,
			},
		},
		StructuredContent: result,
		IsError:           result.Error != "",
	}
}
