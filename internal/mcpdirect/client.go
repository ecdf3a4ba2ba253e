// Package mcpdirect talks to a running MCP server over its SSE endpoint,
// bypassing the manager backend. The dashboard uses it to inspect a server's
// tools straight from the source and to call a tool when the backend only
// brokers lifecycle.
package mcpdirect

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"mcpctl/internal/api"
)

const (
	protocolVersion = "2024-11-05"
	connectTimeout  = 5 * time.Second
	// Tool execution gets longer than connect/list since the tool itself
	// may do real work.
	callTimeout = 60 * time.Second
)

// ListTools connects to the server's SSE endpoint and returns its tools.
// Servers without tool support yield an empty list.
func ListTools(ctx context.Context, sseURL string) ([]api.Tool, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	mcpClient, err := connect(ctx, sseURL)
	if err != nil {
		return nil, err
	}
	defer mcpClient.Close()

	initResult, err := initialize(ctx, mcpClient)
	if err != nil {
		return nil, err
	}
	if initResult.Capabilities.Tools == nil {
		return []api.Tool{}, nil
	}

	toolsResult, err := mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	tools := make([]api.Tool, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		schema, _ := json.Marshal(tool.InputSchema)
		tools = append(tools, api.Tool{
			ID:          tool.Name,
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  schema,
		})
	}
	return tools, nil
}

// CallTool executes a tool over the server's SSE endpoint and adapts the MCP
// result into the backend's execution-result shape.
func CallTool(ctx context.Context, sseURL, toolName string, args map[string]interface{}) (*api.ExecutionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	mcpClient, err := connect(ctx, sseURL)
	if err != nil {
		return nil, err
	}
	defer mcpClient.Close()

	if _, err := initialize(ctx, mcpClient); err != nil {
		return nil, err
	}

	req := mcp.CallToolRequest{
		Params: struct {
			Name      string    `json:"name"`
			Arguments any       `json:"arguments,omitempty"`
			Meta      *mcp.Meta `json:"_meta,omitempty"`
		}{
			Name:      toolName,
			Arguments: args,
		},
	}

	callResult, err := mcpClient.CallTool(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to call tool %s: %w", toolName, err)
	}

	output, err := json.Marshal(callResult.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool output: %w", err)
	}

	status := api.ExecutionStatusSuccess
	if callResult.IsError {
		status = api.ExecutionStatusError
	}
	return &api.ExecutionResult{
		ID:     fmt.Sprintf("direct-%d", time.Now().UnixNano()),
		Status: status,
		Output: output,
	}, nil
}

func connect(ctx context.Context, sseURL string) (client.MCPClient, error) {
	mcpClient, err := client.NewSSEMCPClient(sseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}
	if err := mcpClient.Start(ctx); err != nil {
		mcpClient.Close()
		return nil, fmt.Errorf("failed to start MCP client: %w", err)
	}
	return mcpClient, nil
}

func initialize(ctx context.Context, mcpClient client.MCPClient) (*mcp.InitializeResult, error) {
	initResult, err := mcpClient.Initialize(ctx, mcp.InitializeRequest{
		Params: struct {
			ProtocolVersion string                 `json:"protocolVersion"`
			Capabilities    mcp.ClientCapabilities `json:"capabilities"`
			ClientInfo      mcp.Implementation     `json:"clientInfo"`
		}{
			ProtocolVersion: protocolVersion,
			ClientInfo: mcp.Implementation{
				Name:    "mcpctl",
				Version: "1.0.0",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MCP protocol: %w", err)
	}
	return initResult, nil
}
