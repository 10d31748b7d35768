package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LeonardoGonSantos/tracectl/internal/banking"
	"github.com/LeonardoGonSantos/tracectl/internal/mcpclient"
	"github.com/LeonardoGonSantos/tracectl/internal/mcptools"
)

func TestToolsListRun(t *testing.T) {
	setupTestEnv(t)

	var buf bytes.Buffer
	err := withToolClient(context.Background(), false, func(c *mcpclient.Client) error {
		return toolsListRun(context.Background(), &buf, c, mcptools.SearchServerName)
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"# tracectl-opensearch",
		"7 tools.",
		"## get_full_flow",
		"## search_traces_by_period",
		"| `operation_name` |",
		"| `correlation_id` |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestToolsCallRunSearch(t *testing.T) {
	store := setupTestEnv(t)
	indexLog(t, store, 5*time.Minute, "12345", "corr-a", "Error", "TransferFunds failed")

	args, err := mcpclient.ParseArgs([]string{"client_id=12345", "period=hoje"})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err = withToolClient(context.Background(), false, func(c *mcpclient.Client) error {
		return toolsCallRun(context.Background(), &buf, c, "search_logs_by_client", args)
	})
	if err != nil {
		t.Fatalf("toolsCallRun: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Total logs: 1") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestToolsCallRunToolError(t *testing.T) {
	setupTestEnv(t)

	var buf bytes.Buffer
	err := withToolClient(context.Background(), false, func(c *mcpclient.Client) error {
		return toolsCallRun(context.Background(), &buf, c, "get_full_flow", map[string]any{})
	})
	if err == nil {
		t.Fatal("expected error for a failed tool call")
	}
	if !strings.Contains(buf.String(), "missing required parameter: correlation_id") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestToolsCallRunBanking(t *testing.T) {
	setupTestEnv(t)
	var gotClient string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClient = r.Header.Get(banking.ClientHeader)
		w.Write([]byte(`{"accountId":"a1","balance":150.5}`))
	}))
	defer srv.Close()
	appConfig.Banking.URL = srv.URL
	appConfig.Banking.Timeout = 5 * time.Second
	appConfig.Banking.GenerateCorrelationID = true

	var buf bytes.Buffer
	err := withToolClient(context.Background(), true, func(c *mcpclient.Client) error {
		return toolsCallRun(context.Background(), &buf, c, "get_balance", map[string]any{
			"account_id": "a1",
			"client_id":  "12345",
		})
	})
	if err != nil {
		t.Fatalf("toolsCallRun: %v", err)
	}
	if gotClient != "12345" {
		t.Errorf("client header = %q", gotClient)
	}
	for _, want := range []string{`"status_code": 200`, `"balance": 150.5`, `"correlation_id": "mcp-`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q in:\n%s", want, buf.String())
		}
	}
}
