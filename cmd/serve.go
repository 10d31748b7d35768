package cmd

import (
	"github.com/LeonardoGonSantos/tracectl/internal/mcptools"
	"github.com/LeonardoGonSantos/tracectl/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var mcpServeCmd = &cobra.Command{
	Use:   "mcp-serve",
	Short: "Run the log and trace search MCP server on stdio",
	Long: `Starts a Model Context Protocol (MCP) server that exposes the log and
trace searches over stdio transport.

Available tools:
  - search_logs_by_client / search_traces_by_client
  - search_logs_by_correlation / search_traces_by_correlation
  - search_logs_by_period / search_traces_by_period
  - get_full_flow: logs and spans of one correlation ID together

Example usage in an MCP client config:
  {
    "mcpServers": {
      "opensearch": {
        "command": "/path/to/tracectl",
        "args": ["mcp-serve"]
      }
    }
  }`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := searchEngine()
		if err != nil {
			return err
		}
		logger.Info("starting MCP server",
			"server", mcptools.SearchServerName,
			"transport", "stdio",
			"backend", appConfig.Backend,
			"logs_index", e.Index(report.Logs),
			"traces_index", e.Index(report.Traces),
		)
		// Blocks until the client closes stdin.
		return mcptools.CreateSearchServer(e).Run(cmd.Context(), &mcp.StdioTransport{})
	},
}

var bankingServeCmd = &cobra.Command{
	Use:   "banking-serve",
	Short: "Run the banking API MCP server on stdio",
	Long: `Starts a Model Context Protocol (MCP) server that forwards tool calls to
the banking REST API. Every call carries X-Correlation-Id (generated when not
given) and X-Client-Id headers; pass the returned correlation_id to
get_full_flow to inspect what the call did.

Available tools:
  ping, get_balance, create_user, create_account, login, transfer,
  list_transactions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("starting MCP server",
			"server", mcptools.BankingServerName,
			"transport", "stdio",
			"banking_url", appConfig.Banking.URL,
		)
		return mcptools.CreateBankingServer(bankingClient()).Run(cmd.Context(), &mcp.StdioTransport{})
	},
}

func init() {
	rootCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(bankingServeCmd)
}
