package mcp

import (
	"context"
	"fmt"
	"slices"

	"github.com/dustin/go-humanize/english"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/storysort/pkg/order"
)

// SortKindsParams defines parameters for the sort_kinds tool.
type SortKindsParams struct {
	Kinds []string `json:"kinds"`
}

// SortKindsResult contains the sorted kinds.
type SortKindsResult struct {
	Error   string   `json:"error,omitempty"`
	Message string   `json:"message"`
	Kinds   []string `json:"kinds"`
}

// handleSortKinds handles the sort_kinds tool call.
func (s *Server) handleSortKinds(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[SortKindsParams],
) (*mcp.CallToolResultFor[SortKindsResult], error) {
	result := SortKindsResult{Kinds: []string{}}

	state, err := s.current(ctx)
	if err != nil {
		result.Error = err.Error()

		return createSortKindsResult(result), nil
	}

	kinds := slices.Clone(params.Arguments.Kinds)

	err = order.SortStable(state.Comparator, kinds, func(k string) string { return k })
	if err != nil {
		result.Error = err.Error()

		return createSortKindsResult(result), nil
	}

	result.Kinds = append(result.Kinds, kinds...)

	return createSortKindsResult(result), nil
}

// createSortKindsResult creates the MCP tool result from SortKindsResult.
func createSortKindsResult(result SortKindsResult) *mcp.CallToolResultFor[SortKindsResult] {
	msg := fmt.Sprintf("Sorted %s.", english.Plural(len(result.Kinds), "kind", ""))
	if result.Error != "" {
		msg = "Failed to sort kinds: " + result.Error
	}

	result.Message = msg

	return &mcp.CallToolResultFor[SortKindsResult]{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: msg,
			},
		},
		StructuredContent: result,
		IsError:           result.Error != "",
	}
}
