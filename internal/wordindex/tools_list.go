package wordindex

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListArgument defines list_words parameters.
type ListArgument struct {
	Abbreviate bool `json:"abbreviate,omitempty" jsonschema:"render a book-style index grouped by file name"`
	Max        int  `json:"max,omitempty" jsonschema:"maximum number of words to list, omit or 0 for all words"`
}

// ListHandler handles the list_words MCP tool.
type ListHandler struct {
	service *Service
}

// NewListHandler creates a new list handler.
func NewListHandler(service *Service) *ListHandler {
	return &ListHandler{
		service: service,
	}
}

// Handle lists indexed words in ascending order.
func (h *ListHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ListArgument) (*mcp.CallToolResult, any, error) {
	if !h.service.IsReady() {
		return errorResult("List is not available. The index is still being built. Please try again later."), nil, nil
	}

	idx, err := h.service.Current()
	if err != nil {
		return errorResult("List is not available. The index is still being built. Please try again later."), nil, nil
	}

	if args.Max < 0 {
		return errorResult("Max cannot be negative"), nil, nil
	}

	count := args.Max
	if count == 0 {
		count = -1
	}

	var sb strings.Builder
	n, err := List(&sb, idx, ListOptions{Abbreviate: args.Abbreviate, Count: count})
	if err != nil {
		return errorResult(fmt.Sprintf("List failed: %s", err)), nil, nil
	}
	if n == 0 {
		return textResult("The index is empty"), nil, nil
	}

	return textResult(sb.String()), nil, nil
}

// GetToolDefinition returns the MCP tool definition.
func (h *ListHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_words",
		Description: "List the indexed words in alphabetical order with their locations",
	}
}

// RegisterListTool registers the list tool with an MCP server.
func RegisterListTool(server *mcp.Server, service *Service) {
	handler := NewListHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
