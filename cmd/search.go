package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/LeonardoGonSantos/tracectl/internal/engine"
	"github.com/LeonardoGonSantos/tracectl/internal/mcptools"
	"github.com/LeonardoGonSantos/tracectl/internal/report"
	"github.com/LeonardoGonSantos/tracectl/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newSearchCommand(kind report.Kind) *cobra.Command {
	var c engine.Criteria
	c.Kind = kind

	cmd := &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("Search %s by client, correlation ID and period", kind),
		Long: fmt.Sprintf(`Search the %s index, newest first. All filters are optional and combine
with AND. Without --period there is no time bound and the whole index is
searched.`, kind),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return searchRun(cmd.Context(), cmd.OutOrStdout(), c)
		},
	}

	cmd.Flags().StringVarP(&c.ClientID, "client", "c", "", "client ID (Attributes.clientId)")
	cmd.Flags().StringVarP(&c.CorrelationID, "correlation", "r", "", "correlation ID (Attributes.correlationId)")
	cmd.Flags().StringVarP(&c.Period, "period", "p", "", `natural-language period, e.g. "ontem", "há 2 horas"`)
	if kind == report.Traces {
		cmd.Flags().StringVarP(&c.Operation, "operation", "o", "", "span name")
		cmd.Example = `  tracectl traces --client 12345 --period hoje
  tracectl traces --operation TransferFunds -p "últimas 2 horas"`
	} else {
		cmd.Flags().StringVarP(&c.Severity, "severity", "s", "", "severity text, e.g. Error")
		cmd.Example = `  tracectl logs --client 12345 --period ontem
  tracectl logs --severity Error -p "há 2 horas"
  tracectl logs -r mcp-k3j9x0a1b2c4 --json`
	}
	return cmd
}

var flowPeriod string

var flowCmd = &cobra.Command{
	Use:   "flow <correlation-id>",
	Short: "Show the logs and spans of one request flow",
	Example: `  tracectl flow mcp-k3j9x0a1b2c4
  tracectl flow mcp-k3j9x0a1b2c4 --period "última semana"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return flowRun(cmd.Context(), cmd.OutOrStdout(), args[0], flowPeriod)
	},
}

func init() {
	flowCmd.Flags().StringVarP(&flowPeriod, "period", "p", "", "natural-language period")
	rootCmd.AddCommand(newSearchCommand(report.Logs))
	rootCmd.AddCommand(newSearchCommand(report.Traces))
	rootCmd.AddCommand(flowCmd)
}

func searchRun(ctx context.Context, w io.Writer, c engine.Criteria) error {
	e, err := searchEngine()
	if err != nil {
		return err
	}
	text, err := e.Search(ctx, c)
	if err != nil {
		return err
	}
	return writeReport(w, searchTitle(c), text)
}

func flowRun(ctx context.Context, w io.Writer, correlationID, periodText string) error {
	e, err := searchEngine()
	if err != nil {
		return err
	}
	text, err := e.FullFlow(ctx, correlationID, periodText)
	if err != nil {
		return err
	}
	return writeReport(w, "flow "+correlationID, text)
}

func searchTitle(c engine.Criteria) string {
	parts := []string{string(c.Kind)}
	for _, kv := range [][2]string{
		{"client", c.ClientID},
		{"correlation", c.CorrelationID},
		{"period", c.Period},
		{"severity", c.Severity},
		{"operation", c.Operation},
	} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+"="+kv[1])
		}
	}
	return strings.Join(parts, " ")
}

// writeReport prints a report as JSON, through the pager on a terminal, or
// as plain text.
func writeReport(w io.Writer, title, text string) error {
	if jsonOutput {
		return ui.FormatJSON(w, mcptools.ReportOutput{Report: text})
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t := theme()
		return ui.OutputOrPage(w, title, ui.HighlightReport(text, t)+"\n", false, t)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
