// Package opensearch implements search.Client over an OpenSearch cluster.
package opensearch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/LeonardoGonSantos/tracectl/internal/query"
	"github.com/LeonardoGonSantos/tracectl/internal/search"
)

// Config holds connection settings for the cluster.
type Config struct {
	Addresses          []string
	Username           string
	Password           string
	InsecureSkipVerify bool
}

// Error is a non-2xx response from the cluster.
type Error struct {
	StatusCode int
	Body       string // first 512 bytes
}

func (e *Error) Error() string {
	return fmt.Sprintf("opensearch: HTTP %d: %s", e.StatusCode, e.Body)
}

// Client is a search.Client backed by opensearch-go. It is safe for
// concurrent use.
type Client struct {
	client *opensearchgo.Client
}

var _ search.Client = (*Client)(nil)

// New creates a Client. No request is made until the first search.
func New(cfg Config) (*Client, error) {
	osCfg := opensearchgo.Config{
		Addresses:    cfg.Addresses,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DisableRetry: true,
	}
	if cfg.InsecureSkipVerify {
		osCfg.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // opt-in for self-signed dev clusters
		}
	}
	c, err := opensearchgo.NewClient(osCfg)
	if err != nil {
		return nil, fmt.Errorf("creating opensearch client: %w", err)
	}
	return &Client{client: c}, nil
}

// Search runs body against index and decodes the hits envelope.
func (c *Client) Search(ctx context.Context, index string, body query.Body) (*search.Result, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(payload),
	}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", index, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if res.IsError() {
		return nil, &Error{StatusCode: res.StatusCode, Body: truncateBody(data, maxErrorBody)}
	}

	var result search.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &result, nil
}

// maxErrorBody caps the response body kept in an Error.
const maxErrorBody = 512

// truncateBody returns at most n bytes of data without splitting a rune.
func truncateBody(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	for n > 0 && !utf8.RuneStart(data[n]) {
		n--
	}
	return string(data[:n])
}
