package wordindex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FindArgument defines find_word parameters.
type FindArgument struct {
	Word string `json:"word" jsonschema:"the word to look up, matched case-insensitively"`
}

// FindHandler handles the find_word MCP tool.
type FindHandler struct {
	service *Service
}

// NewFindHandler creates a new find handler.
func NewFindHandler(service *Service) *FindHandler {
	return &FindHandler{
		service: service,
	}
}

// Handle looks up a word and returns the same text the find command prints.
func (h *FindHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FindArgument) (*mcp.CallToolResult, any, error) {
	if !h.service.IsReady() {
		return errorResult("Find is not available. The index is still being built. Please try again later."), nil, nil
	}

	idx, err := h.service.Current()
	if err != nil {
		return errorResult("Find is not available. The index is still being built. Please try again later."), nil, nil
	}

	word := strings.TrimSpace(args.Word)
	if word == "" {
		return errorResult("Word cannot be empty"), nil, nil
	}

	var sb strings.Builder
	if err := Find(&sb, idx, word); err != nil {
		if errors.Is(err, ErrWordNotFound) {
			return textResult(fmt.Sprintf("'%s' not found", word)), nil, nil
		}
		return errorResult(fmt.Sprintf("Find failed: %s", err)), nil, nil
	}

	return textResult(sb.String()), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *FindHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "find_word",
		Description: "Find the files and line numbers where a word occurs in the indexed directory",
	}
}

// RegisterFindTool registers the find tool with an MCP server.
func RegisterFindTool(server *mcp.Server, service *Service) {
	handler := NewFindHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	result := textResult(text)
	result.IsError = true
	return result
}
