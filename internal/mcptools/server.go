package mcptools

import (
	"context"

	"github.com/LeonardoGonSantos/tracectl/internal/banking"
	"github.com/LeonardoGonSantos/tracectl/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server names.
const (
	SearchServerName  = "tracectl-opensearch"
	BankingServerName = "tracectl-banking"
)

// NewSearchMCPServer creates an in-memory MCP server exposing the search tools.
// Returns the server and a client transport for connecting to it.
func NewSearchMCPServer(eng *engine.Engine) (*mcp.Server, mcp.Transport) {
	return connectInMemory(CreateSearchServer(eng))
}

// NewBankingMCPServer creates an in-memory MCP server exposing the banking tools.
// Returns the server and a client transport for connecting to it.
func NewBankingMCPServer(client *banking.Client) (*mcp.Server, mcp.Transport) {
	return connectInMemory(CreateBankingServer(client))
}

func connectInMemory(server *mcp.Server) (*mcp.Server, mcp.Transport) {
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	go func() {
		_, _ = server.Connect(context.Background(), serverTransport, nil)
	}()

	return server, clientTransport
}

// CreateSearchServer creates an MCP server with the log and trace search tools.
func CreateSearchServer(eng *engine.Engine) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    SearchServerName,
		Version: "1.0.0",
	}, nil)

	// Logs
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_logs_by_client",
		Description: "Search banking API logs of one client (Attributes.clientId), newest first. Optional natural-language period in Portuguese or English.",
	}, SearchLogsByClientHandler(eng))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_logs_by_correlation",
		Description: "Search banking API logs of one request flow (Attributes.correlationId), newest first.",
	}, SearchLogsByCorrelationHandler(eng))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_logs_by_period",
		Description: "Search all banking API logs in a period, optionally only one severity (e.g. Error).",
	}, SearchLogsByPeriodHandler(eng))

	// Traces
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_traces_by_client",
		Description: "Search distributed-tracing spans of one client, newest first.",
	}, SearchTracesByClientHandler(eng))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_traces_by_correlation",
		Description: "Search distributed-tracing spans of one request flow, newest first.",
	}, SearchTracesByCorrelationHandler(eng))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_traces_by_period",
		Description: "Search all spans in a period, optionally only one operation name.",
	}, SearchTracesByPeriodHandler(eng))

	// Both
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_full_flow",
		Description: "Show the logs and the spans of one request flow together. Use after a banking tool call with the correlation_id it returned.",
	}, FullFlowHandler(eng))

	return server
}

// CreateBankingServer creates an MCP server with the banking API tools.
func CreateBankingServer(client *banking.Client) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    BankingServerName,
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Check that the banking API is up.",
	}, PingHandler(client))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_balance",
		Description: "Get the balance of a bank account.",
	}, GetBalanceHandler(client))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_user",
		Description: "Create a user together with a first bank account.",
	}, CreateUserHandler(client))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_account",
		Description: "Open another bank account for an existing user.",
	}, CreateAccountHandler(client))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "login",
		Description: "Log a user in.",
	}, LoginHandler(client))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "transfer",
		Description: "Transfer an amount between two accounts.",
	}, TransferHandler(client))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_transactions",
		Description: "List the transactions of an account, optionally between two ISO 8601 dates.",
	}, ListTransactionsHandler(client))

	return server
}
