package papers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// IngestArgument defines ingestion parameters.
type IngestArgument struct {
	PDFDir  string `json:"pdf_dir,omitempty" jsonschema_description:"Directory containing PDF files (default from configuration)"`
	Workers int    `json:"workers,omitempty" jsonschema_description:"Worker count for parallel extraction (default from configuration)"`
}

// IngestHandler handles the ingest_papers MCP tool.
type IngestHandler struct {
	service *Service
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(service *Service) *IngestHandler {
	return &IngestHandler{service: service}
}

// Handle runs the ingestion pipeline and reports successes and
// per-file failures.
func (h *IngestHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args IngestArgument) (*mcp.CallToolResult, any, error) {
	report, err := h.service.Ingest(ctx, args.PDFDir, args.Workers)
	if err != nil {
		if errors.Is(err, ErrEmptyIngestion) && report != nil {
			var sb strings.Builder
			sb.WriteString(fmt.Sprintf("Ingestion failed: none of the %d files could be processed.\n", report.TotalFiles))
			writeFailures(&sb, report.Failures)
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: sb.String()}},
				IsError: true,
			}, nil, nil
		}
		return errorResult(fmt.Sprintf("Ingestion failed: %s", err)), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Ingested %d of %d files; index now holds %d papers.\n",
		report.SuccessCount, report.TotalFiles, h.service.TotalDocuments()))
	writeFailures(&sb, report.Failures)
	return textResult(sb.String()), nil, nil
}

func writeFailures(sb *strings.Builder, failures []Failure) {
	if len(failures) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%d file(s) failed:\n", len(failures)))
	for _, failure := range failures {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", failure.Path, failure.Cause))
	}
}

// GetToolDefinition returns the MCP tool definition.
func (h *IngestHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ingest_papers",
		Description: "Extract metadata from every PDF in a directory and rebuild the search index",
	}
}

// RegisterIngestTool registers the ingest tool with an MCP server.
func RegisterIngestTool(server *mcp.Server, service *Service) {
	handler := NewIngestHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
