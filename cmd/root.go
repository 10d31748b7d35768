package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/LeonardoGonSantos/tracectl/internal/banking"
	"github.com/LeonardoGonSantos/tracectl/internal/config"
	"github.com/LeonardoGonSantos/tracectl/internal/engine"
	"github.com/LeonardoGonSantos/tracectl/internal/logging"
	"github.com/LeonardoGonSantos/tracectl/internal/period"
	"github.com/LeonardoGonSantos/tracectl/internal/search"
	"github.com/LeonardoGonSantos/tracectl/internal/search/opensearch"
	"github.com/LeonardoGonSantos/tracectl/internal/search/sqlite"
	"github.com/LeonardoGonSantos/tracectl/internal/ui"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	jsonOutput  bool
	backendFlag string
	appConfig   *config.Config
	logger      = slog.Default()

	// Built on first use and released in PersistentPostRunE.
	eng      *engine.Engine
	pool     *search.Pool
	local    *sqlite.Store
	resolver = period.New()
)

var rootCmd = &cobra.Command{
	Use:   "tracectl",
	Short: "Query banking API logs and traces in plain language",
	Long: `tracectl resolves natural-language periods ("ontem", "há 2 horas",
"last week") into time windows, searches OpenSearch log and trace indices and
renders compact reports. It also serves the searches and the banking API as
MCP tools.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if backendFlag != "" {
			cfg.Backend = backendFlag
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		appConfig = cfg

		// stdout may carry MCP frames; logs always go to stderr.
		logger = logging.Init(os.Stderr, true, logging.ParseLevel(cfg.LogLevel))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeResources()
	},
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		closeResources()
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "search backend (opensearch|sqlite)")

	// Silence Cobra's built-in error and usage printing so we control stderr output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

// searchEngine returns the engine for the configured backend, building it
// on first use.
func searchEngine() (*engine.Engine, error) {
	if eng != nil {
		return eng, nil
	}

	var client search.Client
	switch appConfig.Backend {
	case config.BackendSQLite:
		store, err := localStore()
		if err != nil {
			return nil, err
		}
		client = store
	default:
		osClient, err := opensearch.New(opensearch.Config{
			Addresses:          []string{appConfig.OpenSearch.URL},
			Username:           appConfig.OpenSearch.Username,
			Password:           appConfig.OpenSearch.Password,
			InsecureSkipVerify: appConfig.OpenSearch.InsecureSkipVerify,
		})
		if err != nil {
			return nil, fmt.Errorf("initializing opensearch client: %w", err)
		}
		client = osClient
	}

	pool = search.NewPool(client,
		search.WithWorkers(appConfig.Search.Workers),
		search.WithQueueSize(appConfig.Search.Queue),
		search.WithLogger(logger),
	)
	eng = engine.New(pool, resolver, engine.Config{
		LogsIndex:   appConfig.OpenSearch.LogsIndex,
		TracesIndex: appConfig.OpenSearch.TracesIndex,
		Size:        appConfig.Search.Size,
	}, engine.WithLogger(logger))
	return eng, nil
}

// localStore opens the libSQL store under the data directory.
func localStore() (*sqlite.Store, error) {
	if local != nil {
		return local, nil
	}
	store, err := sqlite.New(appConfig.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing local store: %w", err)
	}
	local = store
	return local, nil
}

func bankingClient() *banking.Client {
	return banking.New(appConfig.Banking.URL,
		banking.WithTimeout(appConfig.Banking.Timeout),
		banking.WithCorrelationIDs(appConfig.Banking.GenerateCorrelationID),
	)
}

func theme() ui.Theme {
	if appConfig == nil {
		return ui.ResolveTheme(config.ThemeConfig{})
	}
	return ui.ResolveTheme(appConfig.Theme)
}

func closeResources() error {
	if pool != nil {
		pool.Close()
		pool = nil
	}
	eng = nil
	if local != nil {
		err := local.Close()
		local = nil
		return err
	}
	return nil
}
