package mcp

import (
	"testing"

	"github.com/econsearch/papers-mcp/internal/config"
	"github.com/econsearch/papers-mcp/internal/papers"
)

func TestCreateServer(t *testing.T) {
	cfg := ServerConfig{
		Name:    "test-server",
		Version: "1.0.0",
	}

	server := CreateServer(cfg)
	if server == nil {
		t.Fatal("Expected server to be created")
	}
}

func TestCreateServer_EmptyConfig(t *testing.T) {
	cfg := ServerConfig{}

	server := CreateServer(cfg)
	if server == nil {
		t.Fatal("Expected server to be created even with empty config")
	}
}

func TestCreateServer_WithPapersService(t *testing.T) {
	settings := &config.PapersSettings{
		IndexPath:      "storage/paper_index.json",
		DefaultTopK:    5,
		TitleWeight:    3.0,
		KeywordsWeight: 2.0,
		AbstractWeight: 1.0,
	}

	svc, err := papers.NewService(settings, papers.NewMockExtractor())
	if err != nil {
		t.Fatalf("Failed to create papers service: %v", err)
	}

	cfg := ServerConfig{
		Name:      "test-server",
		Version:   "1.0.0",
		PapersSvc: svc,
	}

	server := CreateServer(cfg)
	if server == nil {
		t.Fatal("Expected server to be created with papers service")
	}

	// The MCP SDK doesn't expose a way to list registered tools,
	// so we just verify the server was created successfully.
	// Integration tests verify tools are accessible via MCP protocol.
}
