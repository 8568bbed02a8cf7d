package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/econsearch/papers-mcp/internal/papers"
)

// ServerConfig contains configuration for creating an MCP server
type ServerConfig struct {
	Name      string
	Version   string
	PapersSvc *papers.Service
	Assistant papers.Assistant
}

// CreateServer creates the MCP server and registers the paper tools.
func CreateServer(cfg ServerConfig) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	if cfg.PapersSvc != nil {
		papers.RegisterIngestTool(s, cfg.PapersSvc)
		papers.RegisterSearchTool(s, cfg.PapersSvc)
		papers.RegisterReloadTool(s, cfg.PapersSvc)
		papers.RegisterBodyTool(s, cfg.PapersSvc)
		if cfg.Assistant != nil {
			papers.RegisterAskTool(s, cfg.PapersSvc, cfg.Assistant)
		}
	}

	return s
}
