package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/text/language"

	"github.com/ezlaw/ezlaw/internal/autocomplete"
	"github.com/ezlaw/ezlaw/internal/jsonvalue"
	"github.com/ezlaw/ezlaw/internal/legiscan"
	"github.com/ezlaw/ezlaw/internal/render"
	"github.com/ezlaw/ezlaw/internal/states"
)

// handleFindState ranks the state list against the query.
func (s *Server) handleFindState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	// Rankers hold collator buffers, one per call.
	ranker := autocomplete.NewRanker(language.English)
	matches := ranker.Rank(states.All, query)
	if len(matches) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No state matches %q.", query)), nil
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	var sb strings.Builder
	for i, m := range matches {
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, m.Entry.Name, m.Entry.Code)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleRenderJSON returns display markup for the given document.
func (s *Server) handleRenderJSON(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := request.RequireString("json")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: json"), nil
	}

	v, err := jsonvalue.Parse([]byte(doc))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid JSON: %v", err)), nil
	}

	title := request.GetString("title", "")
	return mcp.NewToolResultText(render.RenderDocument(v, title)), nil
}

// handleGetLaws fetches the dataset and summarises it, or returns one
// extracted document when file is set.
func (s *Server) handleGetLaws(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.laws == nil {
		return mcp.NewToolResultError("LegiScan is not configured. Set LEGISCAN_API_KEY and LEGISCAN_ACCESS_KEY."), nil
	}

	res, err := s.laws.GetLaws(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if file := request.GetString("file", ""); file != "" {
		doc, ok := res.Data.Get(file)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("No extracted document named %q. Available: %s",
				file, strings.Join(res.SampleFiles, ", "))), nil
		}
		pretty, err := doc.Pretty()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding %s: %v", file, err)), nil
		}
		return mcp.NewToolResultText(string(pretty)), nil
	}

	return mcp.NewToolResultText(formatDataset(res)), nil
}

// formatDataset writes a short Markdown summary of a fetched dataset.
func formatDataset(res *legiscan.Result) string {
	info := res.DatasetInfo
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", scalarText(info.SessionTitle))
	fmt.Fprintf(&sb, "- **State ID:** %s\n", scalarText(info.StateID))
	fmt.Fprintf(&sb, "- **Session:** %s\n", scalarText(info.SessionName))
	fmt.Fprintf(&sb, "- **Years:** %s-%s\n", scalarText(info.YearStart), scalarText(info.YearEnd))
	fmt.Fprintf(&sb, "- **Dataset date:** %s\n", scalarText(info.DatasetDate))
	fmt.Fprintf(&sb, "- **Files:** %d in archive, %d extracted\n", info.TotalFiles, info.ProcessedFiles)

	if len(res.SampleFiles) > 0 {
		sb.WriteString("\n### Extracted documents\n\n")
		for _, name := range res.SampleFiles {
			fmt.Fprintf(&sb, "- %s\n", name)
		}
	}
	return sb.String()
}

// scalarText prints strings bare and everything else as JSON.
func scalarText(v jsonvalue.Value) string {
	if v.Kind() == jsonvalue.String {
		return v.Str()
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return "?"
	}
	return string(b)
}
