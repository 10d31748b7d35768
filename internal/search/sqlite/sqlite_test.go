package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/LeonardoGonSantos/tracectl/internal/period"
	"github.com/LeonardoGonSantos/tracectl/internal/query"
)

var base = time.Date(2024, 11, 24, 12, 0, 0, 0, time.UTC)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func doc(minutesAgo int, clientID, correlationID, severity string) map[string]any {
	return map[string]any{
		"@timestamp":   base.Add(-time.Duration(minutesAgo) * time.Minute).Format(time.RFC3339Nano),
		"SeverityText": severity,
		"Body":         fmt.Sprintf("event %d", minutesAgo),
		"Attributes": map[string]any{
			"clientId":      clientID,
			"correlationId": correlationID,
		},
	}
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	docs := []map[string]any{
		doc(5, "12345", "corr-a", "Information"),
		doc(30, "12345", "corr-a", "Error"),
		doc(90, "12345", "corr-b", "Information"),
		doc(10, "99999", "corr-c", "Information"),
		doc(60*48, "12345", "corr-old", "Information"),
	}
	for _, d := range docs {
		if err := s.Index(ctx, "logs", d); err != nil {
			t.Fatalf("Index: %v", err)
		}
	}
	if err := s.Index(ctx, "traces", doc(1, "12345", "corr-a", "")); err != nil {
		t.Fatalf("Index: %v", err)
	}
}

func TestSearchMatchAll(t *testing.T) {
	s := setupStore(t)
	seed(t, s)

	res, err := s.Search(context.Background(), "logs", query.Descriptor{Size: 100}.Body())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Hits.Total.Value != 5 {
		t.Errorf("total = %d, want 5", res.Hits.Total.Value)
	}
	// newest first
	if got := res.Hits.Hits[0].Source["Body"]; got != "event 5" {
		t.Errorf("first hit = %v, want event 5", got)
	}
	if got := res.Hits.Hits[4].Source["Body"]; got != "event 2880" {
		t.Errorf("last hit = %v", got)
	}
}

func TestSearchTermAndRange(t *testing.T) {
	s := setupStore(t)
	seed(t, s)

	window := period.Range{Gte: base.Add(-24 * time.Hour), Lte: base}
	desc := query.Descriptor{Size: 100, Must: []query.Clause{
		query.Term(query.ClientIDField, "12345"),
		query.TimeRange(query.TimestampField, window),
	}}
	res, err := s.Search(context.Background(), "logs", desc.Body())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Hits.Total.Value != 3 {
		t.Errorf("total = %d, want 3", res.Hits.Total.Value)
	}

	desc.Must = append(desc.Must, query.Term(query.SeverityField, "Error"))
	res, err = s.Search(context.Background(), "logs", desc.Body())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Hits.Total.Value != 1 || res.Hits.Hits[0].Source["Body"] != "event 30" {
		t.Errorf("unexpected hits: %+v", res.Hits)
	}
}

func TestSearchSizeLimitsPageNotTotal(t *testing.T) {
	s := setupStore(t)
	seed(t, s)

	res, err := s.Search(context.Background(), "logs", query.Descriptor{Size: 2}.Body())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Hits.Hits) != 2 {
		t.Errorf("page = %d, want 2", len(res.Hits.Hits))
	}
	if res.Hits.Total.Value != 5 {
		t.Errorf("total = %d, want 5", res.Hits.Total.Value)
	}
}

func TestSearchIndexIsolation(t *testing.T) {
	s := setupStore(t)
	seed(t, s)

	desc := query.Descriptor{Size: 10, Must: []query.Clause{query.Term(query.CorrelationIDField, "corr-a")}}
	res, err := s.Search(context.Background(), "traces", desc.Body())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Hits.Total.Value != 1 || res.Hits.Hits[0].Index != "traces" {
		t.Errorf("unexpected hits: %+v", res.Hits)
	}

	res, err = s.Search(context.Background(), "missing", desc.Body())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Hits.Total.Value != 0 || len(res.Hits.Hits) != 0 {
		t.Errorf("expected empty result, got %+v", res.Hits)
	}
}

func TestSearchUnsupportedClause(t *testing.T) {
	s := setupStore(t)

	tests := []struct {
		name string
		q    query.Clause
	}{
		{"wildcard", query.Clause{"wildcard": map[string]any{"Body": "x*"}}},
		{"should", query.Clause{"bool": map[string]any{"should": []any{}}}},
		{"prefix in must", query.Clause{"bool": map[string]any{"must": []any{
			query.Clause{"prefix": map[string]any{"Body": "x"}},
		}}}},
		{"range on other field", query.Clause{"bool": map[string]any{"must": []any{
			query.Clause{"range": map[string]any{"Duration": map[string]any{"gte": "1"}}},
		}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Search(context.Background(), "logs", query.Body{Size: 1, Query: tt.q})
			if !errors.Is(err, ErrUnsupportedClause) {
				t.Errorf("expected ErrUnsupportedClause, got %v", err)
			}
		})
	}
}

func TestIndexRequiresTimestamp(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if err := s.Index(ctx, "logs", map[string]any{"Body": "x"}); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument, got %v", err)
	}
	if err := s.Index(ctx, "logs", map[string]any{"@timestamp": "yesterday"}); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument, got %v", err)
	}

	n, err := s.Count(ctx, "logs")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestJSONPath(t *testing.T) {
	if got := jsonPath("Attributes.clientId"); got != `$."Attributes"."clientId"` {
		t.Errorf("got %s", got)
	}
	if got := jsonPath("@timestamp"); got != `$."@timestamp"` {
		t.Errorf("got %s", got)
	}
}
