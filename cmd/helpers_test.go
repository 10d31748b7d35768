package cmd

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/LeonardoGonSantos/tracectl/internal/config"
	"github.com/LeonardoGonSantos/tracectl/internal/engine"
	"github.com/LeonardoGonSantos/tracectl/internal/period"
	"github.com/LeonardoGonSantos/tracectl/internal/search/sqlite"
)

var testNow = time.Date(2024, 11, 24, 14, 0, 0, 0, time.UTC)

// setupTestEnv points the CLI at a fresh local store and a fixed clock.
func setupTestEnv(t *testing.T) *sqlite.Store {
	t.Helper()
	appConfig = &config.Config{
		Backend: config.BackendSQLite,
		DataDir: t.TempDir(),
		Search:  config.SearchConfig{Workers: 2, Queue: 8, Size: 100},
	}
	jsonOutput = false
	resolver = period.New(period.WithClock(func() time.Time { return testNow }))
	t.Cleanup(func() {
		closeResources()
		resolver = period.New()
		jsonOutput = false
	})

	store, err := localStore()
	if err != nil {
		t.Fatalf("opening local store: %v", err)
	}
	return store
}

func indexLog(t *testing.T, store *sqlite.Store, ago time.Duration, clientID, correlationID, severity, body string) {
	t.Helper()
	err := store.Index(context.Background(), engine.DefaultLogsIndex, map[string]any{
		"@timestamp":   testNow.Add(-ago).Format(time.RFC3339Nano),
		"SeverityText": severity,
		"Body":         body,
		"Attributes":   map[string]any{"clientId": clientID, "correlationId": correlationID},
	})
	if err != nil {
		t.Fatalf("indexing log: %v", err)
	}
}

func indexSpan(t *testing.T, store *sqlite.Store, ago time.Duration, clientID, correlationID, name string) {
	t.Helper()
	err := store.Index(context.Background(), engine.DefaultTracesIndex, map[string]any{
		"@timestamp": testNow.Add(-ago).Format(time.RFC3339Nano),
		"Name":       name,
		"Kind":       "Server",
		"Duration":   int64(12 * time.Millisecond),
		"TraceId":    fmt.Sprintf("trace-%s", correlationID),
		"SpanId":     fmt.Sprintf("span-%s", name),
		"Attributes": map[string]any{"clientId": clientID, "correlationId": correlationID},
	})
	if err != nil {
		t.Fatalf("indexing span: %v", err)
	}
}
