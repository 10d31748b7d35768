// Package banking is a passthrough client for the banking REST API. Calls
// never fail: every outcome, including transport errors, is reported in the
// Response envelope so it can be handed verbatim to an LLM.
package banking

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Propagated request headers.
const (
	CorrelationHeader = "X-Correlation-Id"
	ClientHeader      = "X-Client-Id"
)

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 12
)

// NewCorrelationID returns a fresh correlation ID of the form mcp-<nanoid>.
func NewCorrelationID() string {
	id, err := gonanoid.Generate(idAlphabet, idLength)
	if err != nil {
		// Only fails if the system random source is broken.
		return "mcp-" + time.Now().UTC().Format("20060102150405.000000000")
	}
	return "mcp-" + id
}

// Identity is the caller identity propagated as headers.
type Identity struct {
	CorrelationID string
	ClientID      string
}

// Call is one API request.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Identity
}

// Response is the envelope returned for every call. StatusCode 0 means the
// request never reached the API.
type Response struct {
	StatusCode    int               `json:"status_code"`
	Data          any               `json:"data,omitempty"`
	Error         any               `json:"error,omitempty"`
	Headers       map[string]string `json:"headers,omitempty"`
	CorrelationID string            `json:"correlation_id,omitempty"`
}

// OK reports whether the API answered with a 2xx status.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client talks to one banking API base URL.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	timeout         time.Duration
	generateCorrIDs bool
}

// Option configures Client behavior.
type Option func(*Client)

// WithTimeout sets the request timeout. It applies to a copy of the HTTP
// client, so a client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. nil is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithCorrelationIDs controls whether calls without a correlation ID get a
// generated one. Default: true.
func WithCorrelationIDs(enabled bool) Option {
	return func(c *Client) {
		c.generateCorrIDs = enabled
	}
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		generateCorrIDs: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 && c.httpClient.Timeout != c.timeout {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Do performs call and wraps the outcome in a Response.
func (c *Client) Do(ctx context.Context, call Call) Response {
	corrID := call.CorrelationID
	if corrID == "" && c.generateCorrIDs {
		corrID = NewCorrelationID()
	}

	resp := c.do(ctx, call, corrID)
	resp.CorrelationID = corrID
	return resp
}

func (c *Client) do(ctx context.Context, call Call, corrID string) Response {
	fullURL := c.baseURL + call.Path
	if len(call.Query) > 0 {
		fullURL += "?" + call.Query.Encode()
	}

	var body io.Reader
	if call.Body != nil {
		data, err := json.Marshal(call.Body)
		if err != nil {
			return transportError(err)
		}
		body = bytes.NewReader(data)
	}

	method := call.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return transportError(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if corrID != "" {
		req.Header.Set(CorrelationHeader, corrID)
	}
	if call.ClientID != "" {
		req.Header.Set(ClientHeader, call.ClientID)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return transportError(err)
	}

	out := Response{
		StatusCode: httpResp.StatusCode,
		Headers:    flatten(httpResp.Header),
	}
	if out.OK() {
		out.Data = decode(raw)
		return out
	}
	if parsed := decode(raw); parsed != nil {
		if _, isText := parsed.(string); !isText {
			out.Error = parsed
			return out
		}
	}
	out.Error = map[string]any{"error": string(raw)}
	return out
}

func transportError(err error) Response {
	return Response{StatusCode: 0, Error: map[string]any{"message": err.Error()}}
}

// decode returns the JSON value of raw, the raw text when it is not JSON,
// or nil for an empty body.
func decode(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

func flatten(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}
