package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/LeonardoGonSantos/tracectl/internal/banking"
	"github.com/LeonardoGonSantos/tracectl/internal/engine"
	"github.com/LeonardoGonSantos/tracectl/internal/query"
)

// operation describes one banking API endpoint for generated traffic.
type operation struct {
	name  string
	route string
	// failRate is the probability a call ends with an error log.
	failRate float64
	// failures is a pool of error messages for failed calls.
	failures []string
	// steps are the informational log lines written between start and end.
	steps []string
	// dbCalls is how many child spans a call produces.
	dbCalls int
}

var operations = []operation{
	{
		name:     "Login",
		route:    "POST /auth/login",
		failRate: 0.1,
		failures: []string{"Invalid credentials for user", "User account locked after failed attempts"},
		steps:    []string{"Validating credentials", "Issuing access token"},
		dbCalls:  1,
	},
	{
		name:     "GetBalance",
		route:    "GET /accounts/{id}/balance",
		failRate: 0.05,
		failures: []string{"Account not found"},
		steps:    []string{"Loading account"},
		dbCalls:  1,
	},
	{
		name:     "TransferFunds",
		route:    "POST /transactions",
		failRate: 0.25,
		failures: []string{
			"Insufficient funds for transfer",
			"Destination account not found",
			"Transfer amount exceeds daily limit",
			"Timeout waiting for ledger lock",
		},
		steps:   []string{"Validating transfer request", "Debiting source account", "Crediting destination account"},
		dbCalls: 3,
	},
	{
		name:     "CreateAccount",
		route:    "POST /accounts",
		failRate: 0.08,
		failures: []string{"User not found for email", "Initial balance must be positive"},
		steps:    []string{"Creating account", "Publishing AccountCreated event"},
		dbCalls:  2,
	},
	{
		name:     "ListTransactions",
		route:    "GET /accounts/{id}/transactions",
		failRate: 0.03,
		failures: []string{"Invalid date range"},
		steps:    []string{"Querying transactions"},
		dbCalls:  1,
	},
}

type seedOptions struct {
	days    int
	clients int
	flows   int // per client per day
	seed    int64
}

// indexer is the write side of the local store.
type indexer interface {
	Index(ctx context.Context, index string, source map[string]any) error
}

var seedOpts seedOptions

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the local store with generated banking logs and traces",
	Long: `Populate the local libSQL store with realistic banking API traffic: every
generated request flow has a correlation ID, a handful of logs (some of them
errors) and a server span with database child spans.

Use it with --backend sqlite to try every search offline.`,
	Example: `  tracectl seed
  tracectl seed --days 30 --clients 10
  tracectl --backend sqlite logs --severity Error --period "última semana"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := localStore()
		if err != nil {
			return err
		}
		return seedRun(cmd.Context(), cmd.OutOrStdout(), store, seedOpts, time.Now().UTC())
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedOpts.days, "days", 7, "days of history to generate")
	seedCmd.Flags().IntVar(&seedOpts.clients, "clients", 5, "number of clients")
	seedCmd.Flags().IntVar(&seedOpts.flows, "flows", 6, "request flows per client per day")
	seedCmd.Flags().Int64Var(&seedOpts.seed, "seed", 0, "random seed (default: time-based)")
	rootCmd.AddCommand(seedCmd)
}

func seedRun(ctx context.Context, w io.Writer, store indexer, opts seedOptions, now time.Time) error {
	if opts.days < 1 || opts.clients < 1 || opts.flows < 1 {
		return fmt.Errorf("--days, --clients and --flows must be at least 1")
	}
	if opts.seed == 0 {
		opts.seed = now.UnixNano()
	}
	rng := rand.New(rand.NewSource(opts.seed))

	logsIndex, tracesIndex := engine.DefaultLogsIndex, engine.DefaultTracesIndex
	if appConfig != nil && appConfig.OpenSearch.LogsIndex != "" {
		logsIndex = appConfig.OpenSearch.LogsIndex
	}
	if appConfig != nil && appConfig.OpenSearch.TracesIndex != "" {
		tracesIndex = appConfig.OpenSearch.TracesIndex
	}

	var logCount, spanCount int
	var failed []string
	for c := 0; c < opts.clients; c++ {
		clientID := fmt.Sprintf("%d", 10001+c)
		for i := 0; i < opts.days*opts.flows; i++ {
			at := now.Add(-time.Duration(rng.Int63n(int64(opts.days) * int64(24*time.Hour))))
			logs, spans, ok := generateFlow(rng, clientID, at)
			for _, doc := range logs {
				if err := store.Index(ctx, logsIndex, doc); err != nil {
					return fmt.Errorf("indexing log: %w", err)
				}
			}
			for _, doc := range spans {
				if err := store.Index(ctx, tracesIndex, doc); err != nil {
					return fmt.Errorf("indexing span: %w", err)
				}
			}
			logCount += len(logs)
			spanCount += len(spans)
			if !ok && len(failed) < 3 {
				failed = append(failed, correlationOf(logs[0]))
			}
		}
	}

	fmt.Fprintf(w, "Seeded %d logs and %d spans for %d clients over %d days (seed %d).\n",
		logCount, spanCount, opts.clients, opts.days, opts.seed)
	if len(failed) > 0 {
		fmt.Fprintln(w, "Failed flows to explore:")
		for _, id := range failed {
			fmt.Fprintf(w, "  tracectl --backend sqlite flow %s --period \"últimos %d dias\"\n", id, opts.days)
		}
	}
	return nil
}

// generateFlow returns the logs and spans of one request flow starting at
// at, and whether it succeeded.
func generateFlow(rng *rand.Rand, clientID string, at time.Time) (logs, spans []map[string]any, ok bool) {
	op := operations[rng.Intn(len(operations))]
	// Same shape as IDs the banking tools generate.
	corrID := banking.NewCorrelationID()
	traceID := strings.ReplaceAll(uuid.NewString(), "-", "")
	ok = rng.Float64() >= op.failRate

	attrs := func() map[string]any {
		return map[string]any{"clientId": clientID, "correlationId": corrID}
	}
	logAt := func(t time.Time, severity, body string) map[string]any {
		return map[string]any{
			"@timestamp":   t.Format(time.RFC3339Nano),
			"SeverityText": severity,
			"Body":         body,
			"TraceId":      traceID,
			"Attributes":   attrs(),
		}
	}

	t := at
	step := func() time.Time {
		t = t.Add(time.Duration(2+rng.Intn(40)) * time.Millisecond)
		return t
	}
	logs = append(logs, logAt(t, "Information", fmt.Sprintf("HTTP %s started", op.route)))
	for _, s := range op.steps {
		logs = append(logs, logAt(step(), "Information", s))
	}

	status := 200
	if ok {
		logs = append(logs, logAt(step(), "Information", fmt.Sprintf("%s completed", op.name)))
	} else {
		status = 400
		if rng.Intn(4) == 0 {
			status = 500
		}
		msg := op.failures[rng.Intn(len(op.failures))]
		if status == 500 {
			logs = append(logs, logAt(step(), "Warning", "Retrying after transient failure"))
		}
		logs = append(logs, logAt(step(), "Error", fmt.Sprintf("%s failed: %s", op.name, msg)))
	}
	end := step()

	serverSpan := spanID()
	spans = append(spans, map[string]any{
		"@timestamp": at.Format(time.RFC3339Nano),
		"Name":       op.name,
		"Kind":       "Server",
		"Duration":   end.Sub(at).Nanoseconds(),
		"TraceId":    traceID,
		"SpanId":     serverSpan,
		"Attributes": map[string]any{
			"clientId":         clientID,
			"correlationId":    corrID,
			"http.route":       op.route,
			"http.status_code": status,
		},
	})
	cursor := at
	for i := 0; i < op.dbCalls; i++ {
		cursor = cursor.Add(time.Duration(1+rng.Intn(5)) * time.Millisecond)
		spans = append(spans, map[string]any{
			"@timestamp":   cursor.Format(time.RFC3339Nano),
			"Name":         "postgres query",
			"Kind":         "Client",
			"Duration":     int64(time.Duration(200+rng.Intn(4000)) * time.Microsecond),
			"TraceId":      traceID,
			"SpanId":       spanID(),
			"ParentSpanId": serverSpan,
			"Attributes":   attrs(),
		})
	}
	return logs, spans, ok
}

func spanID() string {
	id := uuid.New()
	return fmt.Sprintf("%x", id[:8])
}

func correlationOf(doc map[string]any) string {
	attrs, _ := doc["Attributes"].(map[string]any)
	id, _ := attrs[strings.TrimPrefix(query.CorrelationIDField, "Attributes.")].(string)
	return id
}
