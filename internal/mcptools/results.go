package mcptools

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func textContent(text string) []mcp.Content {
	return []mcp.Content{&mcp.TextContent{Text: text}}
}

func reportResult(report string, err error) (*mcp.CallToolResult, ReportOutput, error) {
	if err != nil {
		return errorResult(ErrTypeSearch, err.Error()), ReportOutput{}, nil
	}
	return &mcp.CallToolResult{Content: textContent(report)}, ReportOutput{Report: report}, nil
}

func missingParameter(name string) (*mcp.CallToolResult, ReportOutput, error) {
	return missingParameterResult(name), ReportOutput{}, nil
}

func missingParameterResult(name string) *mcp.CallToolResult {
	return errorResult(ErrTypeMissingParameter, "missing required parameter: "+name)
}

func errorResult(kind, message string) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(ErrorOutput{Error: message, Type: kind}, "", "  ")
	return &mcp.CallToolResult{IsError: true, Content: textContent(string(data))}
}
