// Package search defines the store client contract and the bounded worker
// pool that keeps blocking searches off the request dispatcher.
package search

import (
	"context"

	"github.com/LeonardoGonSantos/tracectl/internal/query"
)

// Client executes a query body against one index.
type Client interface {
	Search(ctx context.Context, index string, body query.Body) (*Result, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, index string, body query.Body) (*Result, error)

// Search implements Client.
func (f ClientFunc) Search(ctx context.Context, index string, body query.Body) (*Result, error) {
	return f(ctx, index, body)
}

// Result is the raw store response. Only the hits envelope is interpreted.
type Result struct {
	Hits *Hits `json:"hits"`
}

// Hits holds the total match count and the returned page.
type Hits struct {
	Total *Total `json:"total"`
	Hits  []Hit  `json:"hits"`
}

// Total is the number of matching documents.
type Total struct {
	Value int `json:"value"`
}

// Hit is one retrieved document.
type Hit struct {
	Index  string         `json:"_index,omitempty"`
	ID     string         `json:"_id,omitempty"`
	Source map[string]any `json:"_source"`
}

// NewResult builds a Result from a total and a page of sources.
func NewResult(total int, sources ...map[string]any) *Result {
	hits := make([]Hit, len(sources))
	for i, s := range sources {
		hits[i] = Hit{Source: s}
	}
	return &Result{Hits: &Hits{Total: &Total{Value: total}, Hits: hits}}
}
