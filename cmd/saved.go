package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/LeonardoGonSantos/tracectl/internal/editor"
	"github.com/LeonardoGonSantos/tracectl/internal/engine"
	"github.com/LeonardoGonSantos/tracectl/internal/report"
	"github.com/LeonardoGonSantos/tracectl/internal/savedsearch"
	"github.com/LeonardoGonSantos/tracectl/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage and run saved searches",
	Long: `Saved searches are Markdown files with YAML front matter under
<data_dir>/searches. The front matter holds the filters and the body holds
free-form notes.`,
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return savedListRun(cmd.OutOrStdout())
	},
}

var savedShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a saved search and its notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return savedShowRun(cmd.OutOrStdout(), args[0])
	},
}

var savedRunCmd = &cobra.Command{
	Use:   "run [name]",
	Short: "Run a saved search",
	Long:  "Run a saved search by name. Without a name, pick one interactively.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return savedRunRun(cmd.Context(), cmd.OutOrStdout(), name)
	},
}

var savedEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit a saved search in your editor",
	Long: `Open the saved search file in the configured editor ($EDITOR, then
$VISUAL, then vi). The name cannot be changed; the result is validated
before it is written back.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return savedEditRun(cmd.Context(), cmd.OutOrStdout(), args[0], editor.Resolve(appConfig.Editor))
	},
}

var (
	savedNew   savedsearch.Search
	savedForce bool
	savedNotes string
)

var savedAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Save a search",
	Example: `  tracectl saved add client-errors --kind logs --client 12345 --severity Error --period "última semana"
  tracectl saved add ticket-4711 --kind flow --correlation mcp-k3j9x0a1b2c4 --notes "Reported by support"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := savedNew
		s.Name = args[0]
		s.Notes = savedNotes
		return savedAddRun(cmd.OutOrStdout(), s)
	},
}

var savedDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved search",
	Long:  "Delete a saved search. Requires confirmation unless --force is used.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		s, err := savedsearch.Find(appConfig.SearchesDir(), name)
		if err != nil {
			return err
		}
		if !savedForce && term.IsTerminal(int(os.Stdin.Fd())) {
			confirmed, err := ui.ConfirmDelete(s, theme())
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}
		return savedDeleteRun(cmd.OutOrStdout(), name)
	},
}

func init() {
	f := savedAddCmd.Flags()
	f.StringVar(&savedNew.Kind, "kind", savedsearch.KindLogs, "logs, traces or flow")
	f.StringVar(&savedNew.ClientID, "client", "", "client ID")
	f.StringVar(&savedNew.CorrelationID, "correlation", "", "correlation ID (required for flow)")
	f.StringVar(&savedNew.Period, "period", "", "natural-language period")
	f.StringVar(&savedNew.Severity, "severity", "", "log severity")
	f.StringVar(&savedNew.Operation, "operation", "", "span name")
	f.StringVar(&savedNotes, "notes", "", "notes stored in the file body")

	savedDeleteCmd.Flags().BoolVar(&savedForce, "force", false, "skip confirmation prompt")

	savedCmd.AddCommand(savedListCmd, savedShowCmd, savedRunCmd, savedAddCmd, savedEditCmd, savedDeleteCmd)
	rootCmd.AddCommand(savedCmd)
}

func savedListRun(w io.Writer) error {
	searches, err := savedsearch.Load(appConfig.SearchesDir())
	if err != nil {
		return err
	}
	if jsonOutput {
		if searches == nil {
			searches = []savedsearch.Search{}
		}
		return ui.FormatJSON(w, searches)
	}
	ui.FormatSavedList(w, searches)
	return nil
}

func savedShowRun(w io.Writer, name string) error {
	s, err := savedsearch.Find(appConfig.SearchesDir(), name)
	if err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, s)
	}
	ui.FormatSavedFull(w, s)
	return nil
}

func savedAddRun(w io.Writer, s savedsearch.Search) error {
	dir := appConfig.SearchesDir()
	if _, err := savedsearch.Find(dir, s.Name); err == nil {
		return fmt.Errorf("saved search %s already exists", s.Name)
	}
	if err := savedsearch.Save(dir, s); err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, s)
	}
	fmt.Fprintf(w, "Saved search %s.\n", s.Name)
	return nil
}

func savedEditRun(ctx context.Context, w io.Writer, name, editorCmd string) error {
	dir := appConfig.SearchesDir()
	s, err := savedsearch.Find(dir, name)
	if err != nil {
		return err
	}

	content, changed, err := editor.Edit(ctx, editorCmd, ".md", string(savedsearch.Marshal(s)))
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(w, "No changes.")
		return nil
	}

	edited, err := savedsearch.Unmarshal([]byte(content))
	if err != nil {
		return err
	}
	if edited.Name != s.Name {
		return fmt.Errorf("%w: renaming %s to %s is not supported", savedsearch.ErrInvalid, s.Name, edited.Name)
	}
	if err := savedsearch.Save(dir, edited); err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, edited)
	}
	fmt.Fprintf(w, "Updated saved search %s.\n", edited.Name)
	return nil
}

func savedDeleteRun(w io.Writer, name string) error {
	if err := savedsearch.Delete(appConfig.SearchesDir(), name); err != nil {
		return err
	}
	if jsonOutput {
		return ui.FormatJSON(w, ui.DeleteResult{Name: name, Deleted: true})
	}
	ui.FormatSavedDeleted(w, name)
	return nil
}

func savedRunRun(ctx context.Context, w io.Writer, name string) error {
	dir := appConfig.SearchesDir()

	var s savedsearch.Search
	var err error
	if name == "" {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("saved run needs a name when not attached to a terminal")
		}
		searches, err := savedsearch.Load(dir)
		if err != nil {
			return err
		}
		s, err = ui.PickSavedSearch(searches, theme())
		if errors.Is(err, ui.ErrNoSelection) {
			return nil
		}
		if err != nil {
			return err
		}
	} else if s, err = savedsearch.Find(dir, name); err != nil {
		return err
	}

	if s.Kind == savedsearch.KindFlow {
		return flowRun(ctx, w, s.CorrelationID, s.Period)
	}
	return searchRun(ctx, w, engine.Criteria{
		Kind:          report.Kind(s.Kind),
		ClientID:      s.ClientID,
		CorrelationID: s.CorrelationID,
		Period:        s.Period,
		Severity:      s.Severity,
		Operation:     s.Operation,
	})
}
