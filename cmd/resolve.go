package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/LeonardoGonSantos/tracectl/internal/ui"
	"github.com/spf13/cobra"
)

var resolveAt string

var resolveCmd = &cobra.Command{
	Use:   "resolve [text...]",
	Short: "Print the time window a period expression resolves to",
	Long: `Resolve a natural-language period the same way the searches do and print
the window. Words are joined with spaces, so quoting is optional. Anything
that cannot be understood resolves to the 24 hours before the reference.`,
	Example: `  tracectl resolve ontem
  tracectl resolve há 2 horas
  tracectl resolve "24 de novembro às 14h" --at 2024-11-25T09:00:00Z
  tracectl resolve last week --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveRun(cmd.OutOrStdout(), strings.Join(args, " "), resolveAt)
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveAt, "at", "", "reference instant in RFC 3339 (default: now)")
	rootCmd.AddCommand(resolveCmd)
}

func resolveRun(w io.Writer, text, at string) error {
	ref := resolver.Now()
	if at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return fmt.Errorf("invalid --at %q: use RFC 3339 (e.g., 2024-11-24T14:00:00Z)", at)
		}
		ref = parsed
	}

	r := resolver.ResolveAt(text, ref)
	if jsonOutput {
		return ui.FormatJSON(w, ui.ToRangeJSON(text, r))
	}
	ui.FormatRange(w, text, r)
	return nil
}
