package mcptools

import (
	"context"

	"github.com/LeonardoGonSantos/tracectl/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchLogsByClientHandler returns the handler for the search_logs_by_client tool.
func SearchLogsByClientHandler(eng *engine.Engine) func(ctx context.Context, req *mcp.CallToolRequest, input ClientInput) (*mcp.CallToolResult, ReportOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ClientInput) (*mcp.CallToolResult, ReportOutput, error) {
		if input.ClientID == "" {
			return missingParameter("client_id")
		}
		return reportResult(eng.SearchLogsByClient(ctx, input.ClientID, input.Period))
	}
}

// SearchLogsByCorrelationHandler returns the handler for the search_logs_by_correlation tool.
func SearchLogsByCorrelationHandler(eng *engine.Engine) func(ctx context.Context, req *mcp.CallToolRequest, input CorrelationInput) (*mcp.CallToolResult, ReportOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CorrelationInput) (*mcp.CallToolResult, ReportOutput, error) {
		if input.CorrelationID == "" {
			return missingParameter("correlation_id")
		}
		return reportResult(eng.SearchLogsByCorrelation(ctx, input.CorrelationID, input.Period))
	}
}

// SearchTracesByClientHandler returns the handler for the search_traces_by_client tool.
func SearchTracesByClientHandler(eng *engine.Engine) func(ctx context.Context, req *mcp.CallToolRequest, input ClientInput) (*mcp.CallToolResult, ReportOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ClientInput) (*mcp.CallToolResult, ReportOutput, error) {
		if input.ClientID == "" {
			return missingParameter("client_id")
		}
		return reportResult(eng.SearchTracesByClient(ctx, input.ClientID, input.Period))
	}
}

// SearchTracesByCorrelationHandler returns the handler for the search_traces_by_correlation tool.
func SearchTracesByCorrelationHandler(eng *engine.Engine) func(ctx context.Context, req *mcp.CallToolRequest, input CorrelationInput) (*mcp.CallToolResult, ReportOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CorrelationInput) (*mcp.CallToolResult, ReportOutput, error) {
		if input.CorrelationID == "" {
			return missingParameter("correlation_id")
		}
		return reportResult(eng.SearchTracesByCorrelation(ctx, input.CorrelationID, input.Period))
	}
}

// SearchLogsByPeriodHandler returns the handler for the search_logs_by_period tool.
func SearchLogsByPeriodHandler(eng *engine.Engine) func(ctx context.Context, req *mcp.CallToolRequest, input LogsByPeriodInput) (*mcp.CallToolResult, ReportOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input LogsByPeriodInput) (*mcp.CallToolResult, ReportOutput, error) {
		if input.Period == "" {
			return missingParameter("period")
		}
		return reportResult(eng.SearchLogsByPeriod(ctx, input.Period, input.Severity))
	}
}

// SearchTracesByPeriodHandler returns the handler for the search_traces_by_period tool.
func SearchTracesByPeriodHandler(eng *engine.Engine) func(ctx context.Context, req *mcp.CallToolRequest, input TracesByPeriodInput) (*mcp.CallToolResult, ReportOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input TracesByPeriodInput) (*mcp.CallToolResult, ReportOutput, error) {
		if input.Period == "" {
			return missingParameter("period")
		}
		return reportResult(eng.SearchTracesByPeriod(ctx, input.Period, input.OperationName))
	}
}

// FullFlowHandler returns the handler for the get_full_flow tool.
func FullFlowHandler(eng *engine.Engine) func(ctx context.Context, req *mcp.CallToolRequest, input CorrelationInput) (*mcp.CallToolResult, ReportOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CorrelationInput) (*mcp.CallToolResult, ReportOutput, error) {
		if input.CorrelationID == "" {
			return missingParameter("correlation_id")
		}
		return reportResult(eng.FullFlow(ctx, input.CorrelationID, input.Period))
	}
}
