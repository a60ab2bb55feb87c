package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Relative orders reported by compare_kinds.
const (
	OrderBefore = "before"
	OrderAfter  = "after"
	OrderEqual  = "equal"
)

// CompareKindsParams defines parameters for the compare_kinds tool.
type CompareKindsParams struct {
	A string `json:"a"`
	B string `json:"b"`
}

// CompareKindsResult contains the result of comparing two kinds.
type CompareKindsResult struct {
	Error   string `json:"error,omitempty"`
	Order   string `json:"order,omitempty"`
	Message string `json:"message"`
	Result  int    `json:"result"`
}

// handleCompareKinds handles the compare_kinds tool call.
func (s *Server) handleCompareKinds(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[CompareKindsParams],
) (*mcp.CallToolResultFor[CompareKindsResult], error) {
	result := CompareKindsResult{}

	state, err := s.current(ctx)
	if err != nil {
		result.Error = err.Error()

		return createCompareKindsResult(result, params.Arguments), nil
	}

	n, err := state.Comparator.Compare(params.Arguments.A, params.Arguments.B)
	if err != nil {
		result.Error = err.Error()

		return createCompareKindsResult(result, params.Arguments), nil
	}

	switch {
	case n < 0:
		result.Result = -1
		result.Order = OrderBefore
	case n > 0:
		result.Result = 1
		result.Order = OrderAfter
	default:
		result.Order = OrderEqual
	}

	return createCompareKindsResult(result, params.Arguments), nil
}

// createCompareKindsResult creates the MCP tool result from CompareKindsResult.
func createCompareKindsResult(
	result CompareKindsResult,
	params CompareKindsParams,
) *mcp.CallToolResultFor[CompareKindsResult] {
	var msg string

	switch result.Order {
	case OrderBefore, OrderAfter:
		msg = fmt.Sprintf("%q sorts %s %q.", params.A, result.Order, params.B)
	case OrderEqual:
		msg = fmt.Sprintf("%q and %q keep their source order.", params.A, params.B)
	default:
		msg = "Failed to compare kinds: " + result.Error
	}

	result.Message = msg

	return &mcp.CallToolResultFor[CompareKindsResult]{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: msg,
			},
		},
		StructuredContent: result,
		IsError:           result.Error != "",
	}
}
