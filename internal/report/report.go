// Package report renders raw search hits as compact text for an LLM or a
// terminal.
package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/LeonardoGonSantos/tracectl/internal/search"
)

// Kind selects the per-hit layout.
type Kind string

const (
	Logs   Kind = "logs"
	Traces Kind = "traces"
)

// NoResults is returned when the store found nothing.
const NoResults = "No results found."

// MaxHits is the number of hits rendered before truncating.
const MaxHits = 20

const missing = "N/A"

// Render formats res. It never fails: absent fields render as N/A and an
// absent or empty hit list renders as NoResults.
func Render(res *search.Result, kind Kind) string {
	if res == nil || res.Hits == nil || res.Hits.Hits == nil {
		return NoResults
	}
	hits := res.Hits.Hits
	total := len(hits)
	if res.Hits.Total != nil {
		total = res.Hits.Total.Value
	}
	if total == 0 {
		return NoResults
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Total %s: %d\n", kind, total)

	if len(hits) > MaxHits {
		hits = hits[:MaxHits]
	}
	for i, hit := range hits {
		src := hit.Source
		switch kind {
		case Traces:
			fmt.Fprintf(&b, "\n--- Trace %d ---\n", i+1)
			fmt.Fprintf(&b, "Timestamp: %s\n", field(src, "@timestamp"))
			fmt.Fprintf(&b, "Name: %s\n", field(src, "Name"))
			fmt.Fprintf(&b, "Kind: %s\n", field(src, "Kind"))
			fmt.Fprintf(&b, "Duration: %s\n", duration(src))
			fmt.Fprintf(&b, "TraceId: %s\n", field(src, "TraceId"))
			fmt.Fprintf(&b, "SpanId: %s\n", field(src, "SpanId"))
		default:
			fmt.Fprintf(&b, "\n--- Log %d ---\n", i+1)
			fmt.Fprintf(&b, "Timestamp: %s\n", field(src, "@timestamp"))
			fmt.Fprintf(&b, "Severity: %s\n", field(src, "SeverityText"))
			fmt.Fprintf(&b, "CorrelationId: %s\n", field(src, "Attributes", "correlationId"))
			fmt.Fprintf(&b, "ClientId: %s\n", field(src, "Attributes", "clientId"))
			fmt.Fprintf(&b, "Message: %s\n", field(src, "Body"))
		}
	}

	if total > MaxHits {
		fmt.Fprintf(&b, "\n... and %d more results.\n", total-MaxHits)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderFlow joins a log report and a trace report for one correlation ID.
func RenderFlow(correlationID, logs, traces string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== FULL FLOW - CorrelationId: %s ===\n\n", correlationID)
	b.WriteString("--- LOGS ---\n")
	b.WriteString(logs)
	b.WriteString("\n\n--- TRACES ---\n")
	b.WriteString(traces)
	b.WriteString("\n\n=== END OF FLOW ===")
	return b.String()
}

func duration(src map[string]any) string {
	v := field(src, "Duration")
	if v == missing {
		return v
	}
	return v + "ns"
}

// field walks nested objects along path and formats the leaf.
func field(src map[string]any, path ...string) string {
	var cur any = src
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return missing
		}
		if cur, ok = obj[key]; !ok {
			return missing
		}
	}
	return display(cur)
}

func display(v any) string {
	switch v := v.(type) {
	case nil:
		return missing
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}
