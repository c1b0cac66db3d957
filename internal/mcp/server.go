package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/dexter/internal/wordindex"
)

// ServerConfig contains configuration for creating an MCP server
type ServerConfig struct {
	Name    string
	Version string
	// Service provides the index; tools are only registered when it is set.
	Service *wordindex.Service
}

// CreateServer creates and configures the MCP server
func CreateServer(cfg ServerConfig) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	if cfg.Service != nil {
		wordindex.RegisterFindTool(s, cfg.Service)
		wordindex.RegisterListTool(s, cfg.Service)
	}

	return s
}
