package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/storysort/pkg/catalog"
	"github.com/macropower/storysort/pkg/match"
)

// ListEntriesParams defines parameters for the list_entries tool.
type ListEntriesParams struct {
	Filter string `json:"filter,omitempty"`
}

// ListEntriesResult contains the result of listing entries.
type ListEntriesResult struct {
	Error      string          `json:"error,omitempty"`
	Message    string          `json:"message"`
	Entries    []catalog.Entry `json:"entries"`
	EntryCount int             `json:"entryCount"`
}

// handleListEntries handles the list_entries tool call.
func (s *Server) handleListEntries(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[ListEntriesParams],
) (*mcp.CallToolResultFor[ListEntriesResult], error) {
	startTime := time.Now()

	result := ListEntriesResult{Entries: []catalog.Entry{}}

	state, err := s.current(ctx)
	if err != nil {
		result.Error = err.Error()

		return createListEntriesResult(result), nil
	}

	cat := state.Catalog
	if params.Arguments.Filter != "" {
		f, err := match.New(params.Arguments.Filter)
		if err != nil {
			result.Error = err.Error()

			return createListEntriesResult(result), nil
		}

		cat, err = cat.Filter(f)
		if err != nil {
			result.Error = err.Error()

			return createListEntriesResult(result), nil
		}
	}

	result.Entries = append(result.Entries, cat.Entries...)
	result.EntryCount = cat.Len()

	slog.DebugContext(ctx, "list_entries execution completed",
		slog.Int("entry_count", result.EntryCount),
		slog.Duration("duration", time.Since(startTime)),
	)

	return createListEntriesResult(result), nil
}

// createListEntriesResult creates the MCP tool result from ListEntriesResult.
func createListEntriesResult(result ListEntriesResult) *mcp.CallToolResultFor[ListEntriesResult] {
	msg := fmt.Sprintf("Found %s.", english.Plural(result.EntryCount, "entry", ""))
	if result.Error != "" {
		msg = "Failed to list entries: " + result.Error
	}

	result.Message = msg

	return &mcp.CallToolResultFor[ListEntriesResult]{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: msg,
			},
		},
		StructuredContent: result,
		IsError:           result.Error != "",
	}
}
