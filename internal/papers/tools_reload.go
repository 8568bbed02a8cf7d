package papers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReloadArgument defines reload parameters. The tool takes none.
type ReloadArgument struct{}

// ReloadHandler handles the reload_index MCP tool.
type ReloadHandler struct {
	service *Service
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(service *Service) *ReloadHandler {
	return &ReloadHandler{service: service}
}

// Handle re-reads the persisted index file. On failure the previously
// loaded index remains in service.
func (h *ReloadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReloadArgument) (*mcp.CallToolResult, any, error) {
	total, err := h.service.Reload()
	if err != nil {
		return errorResult(fmt.Sprintf(
			"Reload failed: %s. The previously loaded index (%d papers) remains in service.", err, total)), nil, nil
	}
	return textResult(fmt.Sprintf("Index reloaded: %d papers.", total)), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *ReloadHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "reload_index",
		Description: "Reload the persisted paper index from disk and rebuild ranking statistics",
	}
}

// RegisterReloadTool registers the reload tool with an MCP server.
func RegisterReloadTool(server *mcp.Server, service *Service) {
	handler := NewReloadHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
