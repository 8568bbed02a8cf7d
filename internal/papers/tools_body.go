package papers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// BodyArgument defines full-text fetch parameters.
type BodyArgument struct {
	Path     string `json:"path" jsonschema_description:"Indexed path of the paper"`
	MaxPages int    `json:"max_pages,omitempty" jsonschema_description:"Maximum pages to read (0 = all)"`
}

// BodyHandler handles the get_paper_body MCP tool.
type BodyHandler struct {
	service *Service
}

// NewBodyHandler creates a new body handler.
func NewBodyHandler(service *Service) *BodyHandler {
	return &BodyHandler{service: service}
}

// Handle fetches the full text of an indexed paper on demand.
func (h *BodyHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args BodyArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Path) == "" {
		return errorResult("Path cannot be empty"), nil, nil
	}
	if args.MaxPages < 0 {
		return errorResult("max_pages must be >= 0"), nil, nil
	}

	maxPages := args.MaxPages
	if maxPages == 0 {
		maxPages = h.service.Settings().BodyMaxPages
	}

	text, err := h.service.Body(ctx, args.Path, maxPages)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to read paper body: %s", err)), nil, nil
	}
	if text == "" {
		return textResult("The document yielded no extractable text."), nil, nil
	}
	return textResult(text), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *BodyHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_paper_body",
		Description: "Extract the full text of an indexed paper on demand",
	}
}

// RegisterBodyTool registers the body tool with an MCP server.
func RegisterBodyTool(server *mcp.Server, service *Service) {
	handler := NewBodyHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
