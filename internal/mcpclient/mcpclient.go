// Package mcpclient drives an MCP server session from the command line.
package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Client wraps an MCP client session for listing and calling tools.
type Client struct {
	session *mcp.ClientSession
}

// Result is the outcome of one tool call.
type Result struct {
	Text       string
	IsError    bool
	Structured any
}

// Connect opens a session over transport.
func Connect(ctx context.Context, transport mcp.Transport) (*Client, error) {
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "tracectl-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to MCP server: %w", err)
	}
	return &Client{session: session}, nil
}

// Close ends the session.
func (c *Client) Close() error {
	return c.session.Close()
}

// Tools lists the server's tools sorted by name.
func (c *Client) Tools(ctx context.Context) ([]*mcp.Tool, error) {
	res, err := c.session.ListTools(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	tools := res.Tools
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools, nil
}

// Call invokes a tool by name. A tool-level failure is reported through
// Result.IsError, not the error return.
func (c *Client) Call(ctx context.Context, name string, args map[string]any) (Result, error) {
	if args == nil {
		args = map[string]any{}
	}
	res, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return Result{}, fmt.Errorf("call tool %s: %w", name, err)
	}

	out := Result{IsError: res.IsError, Structured: res.StructuredContent}
	for _, content := range res.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			out.Text += text.Text
		}
	}
	if out.Text == "" && out.Structured != nil {
		data, err := json.MarshalIndent(out.Structured, "", "  ")
		if err != nil {
			return Result{}, fmt.Errorf("marshal structured content: %w", err)
		}
		out.Text = string(data)
	}
	return out, nil
}
