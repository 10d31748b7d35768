package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/LeonardoGonSantos/tracectl/internal/mcpclient"
	"github.com/LeonardoGonSantos/tracectl/internal/mcptools"
	"github.com/LeonardoGonSantos/tracectl/internal/ui"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var toolsBanking bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Describe the MCP tools",
	Long: `Print the tools served by mcp-serve (or banking-serve with --banking) with
their parameters, exactly as an MCP client discovers them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withToolClient(cmd.Context(), toolsBanking, func(c *mcpclient.Client) error {
			return toolsListRun(cmd.Context(), cmd.OutOrStdout(), c, toolsServerName(toolsBanking))
		})
	},
}

var toolsCallCmd = &cobra.Command{
	Use:   "call <tool> [key=value | key:=json]...",
	Short: "Call an MCP tool in process",
	Long: `Call a tool through an in-memory MCP session, with the same argument
validation and output an MCP client gets. key=value passes a string;
key:=json passes a JSON value such as a number.`,
	Example: `  tracectl tools call search_logs_by_client client_id=12345 period=ontem
  tracectl tools call get_full_flow correlation_id=mcp-k3j9x0a1b2c4
  tracectl tools call --banking transfer from_account_id=a1 to_account_id=a2 amount:=25`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolArgs, err := mcpclient.ParseArgs(args[1:])
		if err != nil {
			return err
		}
		return withToolClient(cmd.Context(), toolsBanking, func(c *mcpclient.Client) error {
			return toolsCallRun(cmd.Context(), cmd.OutOrStdout(), c, args[0], toolArgs)
		})
	},
}

func init() {
	toolsCmd.PersistentFlags().BoolVar(&toolsBanking, "banking", false, "use the banking tools instead of the search tools")
	toolsCmd.AddCommand(toolsCallCmd)
	rootCmd.AddCommand(toolsCmd)
}

func toolsServerName(bankingTools bool) string {
	if bankingTools {
		return mcptools.BankingServerName
	}
	return mcptools.SearchServerName
}

// withToolClient runs fn against an in-memory session with the selected server.
func withToolClient(ctx context.Context, bankingTools bool, fn func(*mcpclient.Client) error) error {
	var transport mcp.Transport
	if bankingTools {
		_, transport = mcptools.NewBankingMCPServer(bankingClient())
	} else {
		e, err := searchEngine()
		if err != nil {
			return err
		}
		_, transport = mcptools.NewSearchMCPServer(e)
	}

	c, err := mcpclient.Connect(ctx, transport)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

func toolsListRun(ctx context.Context, w io.Writer, c *mcpclient.Client, server string) error {
	tools, err := c.Tools(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, tools)
	}

	doc := toolsMarkdown(server, tools)
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		width, _, err := term.GetSize(int(f.Fd()))
		if err != nil {
			width = 80
		}
		doc = ui.RenderMarkdown(doc, min(width, ui.DefaultMaxWidth), theme().MarkdownStyle) + "\n"
		return ui.OutputOrPage(w, server+" tools", doc, false, theme())
	}
	_, err = fmt.Fprint(w, doc)
	return err
}

func toolsCallRun(ctx context.Context, w io.Writer, c *mcpclient.Client, name string, args map[string]any) error {
	res, err := c.Call(ctx, name, args)
	if err != nil {
		return err
	}
	if jsonOutput && res.Structured != nil {
		if err := ui.FormatJSON(w, res.Structured); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w, res.Text)
	}
	if res.IsError {
		return fmt.Errorf("tool %s reported an error", name)
	}
	return nil
}

type schemaDoc struct {
	Properties map[string]struct {
		Type        any    `json:"type"`
		Description string `json:"description"`
	} `json:"properties"`
	Required []string `json:"required"`
}

// toolsMarkdown documents tools as Markdown, one section per tool with a
// parameter table.
func toolsMarkdown(server string, tools []*mcp.Tool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%d tools.\n", server, len(tools))
	for _, t := range tools {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", t.Name, t.Description)

		var schema schemaDoc
		if data, err := json.Marshal(t.InputSchema); err == nil {
			_ = json.Unmarshal(data, &schema)
		}
		if len(schema.Properties) == 0 {
			continue
		}

		names := make([]string, 0, len(schema.Properties))
		for name := range schema.Properties {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("\n| Parameter | Type | Description |\n|---|---|---|\n")
		for _, name := range names {
			p := schema.Properties[name]
			fmt.Fprintf(&b, "| `%s` | %v | %s |\n", name, p.Type, strings.ReplaceAll(p.Description, "|", `\|`))
		}
	}
	return b.String()
}
