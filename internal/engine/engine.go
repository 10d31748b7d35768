// Package engine runs the assemble → execute → render pipeline behind every
// named search operation.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/LeonardoGonSantos/tracectl/internal/period"
	"github.com/LeonardoGonSantos/tracectl/internal/query"
	"github.com/LeonardoGonSantos/tracectl/internal/report"
	"github.com/LeonardoGonSantos/tracectl/internal/search"
)

// Default index names.
const (
	DefaultLogsIndex   = "logs-banking-api"
	DefaultTracesIndex = "traces-banking-api"
)

// Config names the indices and the page size.
type Config struct {
	LogsIndex   string
	TracesIndex string
	Size        int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Engine turns named operations into store queries and text reports. It
// holds no per-request state and is safe for concurrent use.
type Engine struct {
	client    search.Client
	resolver  *period.Resolver
	assembler *query.Assembler
	cfg       Config
	logger    *slog.Logger
}

// New creates an Engine over client. Empty index names fall back to the
// defaults.
func New(client search.Client, resolver *period.Resolver, cfg Config, opts ...Option) *Engine {
	if cfg.LogsIndex == "" {
		cfg.LogsIndex = DefaultLogsIndex
	}
	if cfg.TracesIndex == "" {
		cfg.TracesIndex = DefaultTracesIndex
	}
	e := &Engine{
		client:    client,
		resolver:  resolver,
		assembler: query.NewAssembler(resolver),
		cfg:       cfg,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Index returns the index searched for kind.
func (e *Engine) Index(kind report.Kind) string {
	if kind == report.Traces {
		return e.cfg.TracesIndex
	}
	return e.cfg.LogsIndex
}

// Run assembles req, executes it and renders the result as kind. An empty
// req.Index is filled from kind and an unset size from the engine config.
func (e *Engine) Run(ctx context.Context, req query.Request, kind report.Kind) (string, error) {
	return e.execute(ctx, e.assemble(req, kind), kind)
}

func (e *Engine) assemble(req query.Request, kind report.Kind) query.Descriptor {
	if req.Index == "" {
		req.Index = e.Index(kind)
	}
	if req.Size <= 0 {
		req.Size = e.cfg.Size
	}
	return e.assembler.Assemble(req)
}

func (e *Engine) execute(ctx context.Context, desc query.Descriptor, kind report.Kind) (string, error) {
	e.logger.Debug("executing query",
		"index", desc.Index,
		"clauses", len(desc.Must),
		"size", desc.Size,
	)
	res, err := e.client.Search(ctx, desc.Index, desc.Body())
	if err != nil {
		return "", fmt.Errorf("searching %s: %w", desc.Index, err)
	}
	return report.Render(res, kind), nil
}

// SearchLogsByClient reports the logs of one client.
func (e *Engine) SearchLogsByClient(ctx context.Context, clientID, periodText string) (string, error) {
	return e.Run(ctx, query.Request{
		Filters: []query.Filter{query.ClientFilter(clientID)},
		Period:  periodText,
	}, report.Logs)
}

// SearchLogsByCorrelation reports the logs of one request flow.
func (e *Engine) SearchLogsByCorrelation(ctx context.Context, correlationID, periodText string) (string, error) {
	return e.Run(ctx, query.Request{
		Filters: []query.Filter{query.CorrelationFilter(correlationID)},
		Period:  periodText,
	}, report.Logs)
}

// SearchTracesByClient reports the spans of one client.
func (e *Engine) SearchTracesByClient(ctx context.Context, clientID, periodText string) (string, error) {
	return e.Run(ctx, query.Request{
		Filters: []query.Filter{query.ClientFilter(clientID)},
		Period:  periodText,
	}, report.Traces)
}

// SearchTracesByCorrelation reports the spans of one request flow.
func (e *Engine) SearchTracesByCorrelation(ctx context.Context, correlationID, periodText string) (string, error) {
	return e.Run(ctx, query.Request{
		Filters: []query.Filter{query.CorrelationFilter(correlationID)},
		Period:  periodText,
	}, report.Traces)
}

// SearchLogsByPeriod reports all logs in a window, optionally narrowed to
// one severity.
func (e *Engine) SearchLogsByPeriod(ctx context.Context, periodText, severity string) (string, error) {
	req := query.Request{Period: periodText}
	if severity != "" {
		req.Extra = []query.Clause{query.Term(query.SeverityField, severity)}
	}
	return e.Run(ctx, req, report.Logs)
}

// SearchTracesByPeriod reports all spans in a window, optionally narrowed to
// one operation name.
func (e *Engine) SearchTracesByPeriod(ctx context.Context, periodText, operationName string) (string, error) {
	req := query.Request{Period: periodText}
	if operationName != "" {
		req.Extra = []query.Clause{query.Term(query.OperationNameField, operationName)}
	}
	return e.Run(ctx, req, report.Traces)
}

// FullFlow reports the logs and spans of one request flow side by side. Both
// queries share one reference instant and run concurrently.
func (e *Engine) FullFlow(ctx context.Context, correlationID, periodText string) (string, error) {
	base := query.Request{
		Filters:   []query.Filter{query.CorrelationFilter(correlationID)},
		Period:    periodText,
		Reference: e.resolver.Now(),
	}
	logsDesc := e.assemble(base, report.Logs)
	tracesDesc := e.assemble(base, report.Traces)

	var logs, traces string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		logs, err = e.execute(gctx, logsDesc, report.Logs)
		return err
	})
	g.Go(func() error {
		var err error
		traces, err = e.execute(gctx, tracesDesc, report.Traces)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}
	return report.RenderFlow(correlationID, logs, traces), nil
}

// Criteria is a free combination of filters used by the CLI and saved
// searches.
type Criteria struct {
	Kind          report.Kind
	ClientID      string
	CorrelationID string
	Period        string
	Severity      string
	Operation     string
}

// Search runs an arbitrary combination of filters. Severity applies to logs
// and Operation to traces.
func (e *Engine) Search(ctx context.Context, c Criteria) (string, error) {
	req := query.Request{
		Filters: []query.Filter{
			query.ClientFilter(c.ClientID),
			query.CorrelationFilter(c.CorrelationID),
		},
		Period: c.Period,
	}
	switch {
	case c.Kind == report.Traces && c.Operation != "":
		req.Extra = []query.Clause{query.Term(query.OperationNameField, c.Operation)}
	case c.Kind != report.Traces && c.Severity != "":
		req.Extra = []query.Clause{query.Term(query.SeverityField, c.Severity)}
	}
	return e.Run(ctx, req, c.Kind)
}
