package banking

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDo_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"accountId":"a1","balance":150.5}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp := c.GetBalance(context.Background(), Identity{}, "a1")

	if resp.StatusCode != 200 || !resp.OK() {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	data, ok := resp.Data.(map[string]any)
	if !ok || data["balance"] != 150.5 {
		t.Fatalf("data = %#v", resp.Data)
	}
	if resp.Error != nil {
		t.Errorf("unexpected error field: %v", resp.Error)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("headers = %v", resp.Headers)
	}
}

func TestDo_PropagatesIdentityHeaders(t *testing.T) {
	var gotCorr, gotClient string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCorr = r.Header.Get(CorrelationHeader)
		gotClient = r.Header.Get(ClientHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp := New(srv.URL).Ping(context.Background(), Identity{CorrelationID: "corr-42", ClientID: "12345"})

	if gotCorr != "corr-42" || gotClient != "12345" {
		t.Errorf("headers = %q / %q", gotCorr, gotClient)
	}
	if resp.CorrelationID != "corr-42" {
		t.Errorf("echoed correlation = %q", resp.CorrelationID)
	}
	if resp.Data != nil {
		t.Errorf("empty body should give nil data, got %v", resp.Data)
	}
}

func TestDo_GeneratesCorrelationID(t *testing.T) {
	var gotCorr string
	var sawClient bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCorr = r.Header.Get(CorrelationHeader)
		_, sawClient = r.Header[ClientHeader]
		w.Write([]byte(`"pong"`))
	}))
	defer srv.Close()

	resp := New(srv.URL).Ping(context.Background(), Identity{})

	if !strings.HasPrefix(gotCorr, "mcp-") || len(gotCorr) != len("mcp-")+idLength {
		t.Errorf("generated correlation = %q", gotCorr)
	}
	if resp.CorrelationID != gotCorr {
		t.Errorf("echoed %q, sent %q", resp.CorrelationID, gotCorr)
	}
	if sawClient {
		t.Error("client header should be omitted when empty")
	}
	if resp.Data != "pong" {
		t.Errorf("data = %v", resp.Data)
	}
}

func TestDo_CorrelationGenerationDisabled(t *testing.T) {
	var present bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header[CorrelationHeader]
	}))
	defer srv.Close()

	resp := New(srv.URL, WithCorrelationIDs(false)).Ping(context.Background(), Identity{})
	if present {
		t.Error("correlation header should be absent")
	}
	if resp.CorrelationID != "" {
		t.Errorf("correlation = %q", resp.CorrelationID)
	}
}

func TestDo_JSONBodyAndMethod(t *testing.T) {
	var gotMethod, gotPath, gotType string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"transactionId":"t1"}`))
	}))
	defer srv.Close()

	resp := New(srv.URL).Transfer(context.Background(), Identity{}, Transfer{
		FromAccountID: "a1", ToAccountID: "a2", Amount: 25,
	})

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if gotMethod != http.MethodPost || gotPath != "/transactions" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if gotType != "application/json" {
		t.Errorf("content type = %q", gotType)
	}
	if gotBody["fromAccountId"] != "a1" || gotBody["toAccountId"] != "a2" || gotBody["amount"] != 25.0 {
		t.Errorf("body = %v", gotBody)
	}
}

func TestListTransactions_Query(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	c.ListTransactions(context.Background(), Identity{}, "a1", "2024-11-01", "2024-11-30")
	if gotPath != "/accounts/a1/transactions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "endDate=2024-11-30&startDate=2024-11-01" {
		t.Errorf("query = %q", gotQuery)
	}

	c.ListTransactions(context.Background(), Identity{}, "a1", "", "")
	if gotQuery != "" {
		t.Errorf("expected no query, got %q", gotQuery)
	}
}

func TestDo_ErrorBodies(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"json error", http.StatusBadRequest, `{"message":"Insufficient funds"}`, `{"message":"Insufficient funds"}`},
		{"plain text", http.StatusInternalServerError, "boom", `{"error":"boom"}`},
		{"empty", http.StatusNotFound, "", `{"error":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resp := New(srv.URL).Ping(context.Background(), Identity{})
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if resp.OK() || resp.Data != nil {
				t.Errorf("error response carried data: %v", resp.Data)
			}
			got, _ := json.Marshal(resp.Error)
			if string(got) != tt.want {
				t.Errorf("error = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDo_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	resp := New(url, WithTimeout(time.Second)).Ping(context.Background(), Identity{CorrelationID: "c"})
	if resp.StatusCode != 0 {
		t.Errorf("status = %d, want 0", resp.StatusCode)
	}
	errObj, ok := resp.Error.(map[string]any)
	if !ok || errObj["message"] == "" {
		t.Fatalf("error = %#v", resp.Error)
	}
	if resp.Headers != nil {
		t.Errorf("headers = %v", resp.Headers)
	}
	if resp.CorrelationID != "c" {
		t.Errorf("correlation = %q", resp.CorrelationID)
	}
}

func TestDo_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	resp := New(srv.URL, WithTimeout(20*time.Millisecond)).Ping(context.Background(), Identity{})
	if resp.StatusCode != 0 {
		t.Errorf("status = %d, want 0", resp.StatusCode)
	}
}

func TestNewCorrelationID(t *testing.T) {
	a, b := NewCorrelationID(), NewCorrelationID()
	if a == b {
		t.Errorf("ids collided: %s", a)
	}
	if !strings.HasPrefix(a, "mcp-") {
		t.Errorf("id = %q", a)
	}
}

func TestOptions_LeaveCallerClientAlone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"pong"`))
	}))
	defer srv.Close()

	shared := &http.Client{}
	for _, opts := range [][]Option{
		{WithHTTPClient(shared), WithTimeout(time.Second)},
		{WithTimeout(time.Second), WithHTTPClient(shared)},
	} {
		c := New(srv.URL, opts...)
		if shared.Timeout != 0 {
			t.Fatalf("caller client timeout changed to %v", shared.Timeout)
		}
		if c.httpClient == shared || c.httpClient.Timeout != time.Second {
			t.Errorf("client timeout = %v, shared = %v", c.httpClient.Timeout, c.httpClient == shared)
		}
		if resp := c.Ping(context.Background(), Identity{}); resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d", resp.StatusCode)
		}
	}
	if http.DefaultClient.Timeout != 0 {
		t.Errorf("default client timeout changed to %v", http.DefaultClient.Timeout)
	}
	New(srv.URL, WithHTTPClient(http.DefaultClient), WithTimeout(time.Second))
	if http.DefaultClient.Timeout != 0 {
		t.Errorf("default client timeout changed to %v", http.DefaultClient.Timeout)
	}
}

func TestOptions_NilHTTPClientIgnored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp := New(srv.URL, WithHTTPClient(nil)).Ping(context.Background(), Identity{})
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, error = %v", resp.StatusCode, resp.Error)
	}
}
