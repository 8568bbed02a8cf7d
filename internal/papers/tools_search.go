package papers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchArgument defines search parameters.
type SearchArgument struct {
	Query string `json:"query" jsonschema_description:"Free-text search query"`
	TopK  int    `json:"top_k,omitempty" jsonschema_description:"Maximum number of results (default from configuration)"`
}

// SearchHandler handles the search_papers MCP tool.
type SearchHandler struct {
	service *Service
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service *Service) *SearchHandler {
	return &SearchHandler{service: service}
}

// Handle executes the search and returns formatted results.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgument) (*mcp.CallToolResult, any, error) {
	if args.TopK < 0 {
		return errorResult("top_k must be >= 1"), nil, nil
	}

	results := h.service.Search(args.Query, args.TopK)
	return formatSearchResults(results, args.Query), nil, nil
}

// formatSearchResults renders ranked papers for an MCP response.
func formatSearchResults(results []SearchResult, queryStr string) *mcp.CallToolResult {
	if len(results) == 0 {
		return textResult(fmt.Sprintf("No results found for query: %s", queryStr))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d results for '%s':\n\n", len(results), queryStr))
	for i, result := range results {
		rec := result.Record
		sb.WriteString(fmt.Sprintf("### %d. %s\n", i+1, rec.Title))
		sb.WriteString(fmt.Sprintf("**Path**: %s\n", rec.Path))
		sb.WriteString(fmt.Sprintf("**Score**: %.4f\n", result.Score))
		if rec.Year != nil {
			sb.WriteString(fmt.Sprintf("**Year**: %d\n", *rec.Year))
		}
		if len(rec.Authors) > 0 {
			sb.WriteString(fmt.Sprintf("**Authors**: %s\n", strings.Join(rec.Authors, ", ")))
		}
		if len(rec.Keywords) > 0 {
			sb.WriteString(fmt.Sprintf("**Keywords**: %s\n", strings.Join(rec.Keywords, ", ")))
		}
		if rec.Abstract != "" {
			sb.WriteString(fmt.Sprintf("\n%s\n", rec.Abstract))
		}
		sb.WriteString("\n")
	}
	return textResult(sb.String())
}

// GetToolDefinition returns the MCP tool definition.
func (h *SearchHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_papers",
		Description: "Rank indexed papers against a free-text query using TF-IDF over their metadata",
	}
}

// RegisterSearchTool registers the search tool with an MCP server.
func RegisterSearchTool(server *mcp.Server, service *Service) {
	handler := NewSearchHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

// textResult wraps plain text in a tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// errorResult wraps plain text in an error tool result.
func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}
