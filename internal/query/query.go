// Package query assembles search-store request bodies from identity filters,
// a natural-language period and caller-supplied clauses.
package query

import (
	"time"

	"github.com/LeonardoGonSantos/tracectl/internal/period"
)

// Canonical document fields.
const (
	TimestampField     = "@timestamp"
	ClientIDField      = "Attributes.clientId"
	CorrelationIDField = "Attributes.correlationId"
	SeverityField      = "SeverityText"
	OperationNameField = "Name"
)

// DefaultSize is the page size used when a request does not set one.
const DefaultSize = 100

// Clause is one opaque query clause, serialized verbatim.
type Clause map[string]any

// Term returns an exact-match clause.
func Term(field, value string) Clause {
	return Clause{"term": map[string]any{field: value}}
}

// TimeRange returns a range clause over field bounded by r.
func TimeRange(field string, r period.Range) Clause {
	return Clause{"range": map[string]any{
		field: map[string]any{
			"gte": r.Gte.Format(time.RFC3339Nano),
			"lte": r.Lte.Format(time.RFC3339Nano),
		},
	}}
}

// Filter scopes a query to documents whose field equals value exactly.
type Filter struct {
	Field string
	Value string
}

// ClientFilter scopes a query to one client.
func ClientFilter(clientID string) Filter {
	return Filter{Field: ClientIDField, Value: clientID}
}

// CorrelationFilter scopes a query to one correlated request flow.
func CorrelationFilter(correlationID string) Filter {
	return Filter{Field: CorrelationIDField, Value: correlationID}
}

// Request describes a query before assembly.
type Request struct {
	Index   string
	Filters []Filter
	// Period is natural-language text; empty means no time bound.
	Period string
	// Reference anchors Period. Zero means the resolver's clock.
	Reference time.Time
	Extra     []Clause
	Size      int
}

// Descriptor is an assembled query ready for execution.
type Descriptor struct {
	Index string
	Must  []Clause
	Size  int
}

// MatchAll reports whether the descriptor places no constraints.
func (d Descriptor) MatchAll() bool {
	return len(d.Must) == 0
}

// Body is the request body sent to the store.
type Body struct {
	Size  int                         `json:"size"`
	Sort  []map[string]map[string]any `json:"sort"`
	Query Clause                      `json:"query"`
}

// Body renders the descriptor as a store request body, newest first.
func (d Descriptor) Body() Body {
	b := Body{
		Size: d.Size,
		Sort: []map[string]map[string]any{
			{TimestampField: {"order": "desc"}},
		},
	}
	if d.MatchAll() {
		b.Query = Clause{"match_all": map[string]any{}}
	} else {
		must := make([]any, len(d.Must))
		for i, c := range d.Must {
			must[i] = c
		}
		b.Query = Clause{"bool": map[string]any{"must": must}}
	}
	return b
}

// Assembler builds descriptors.
type Assembler struct {
	resolver *period.Resolver
}

// NewAssembler creates an Assembler that resolves periods with resolver.
func NewAssembler(resolver *period.Resolver) *Assembler {
	return &Assembler{resolver: resolver}
}

// Assemble builds a descriptor: identity clauses first, then at most one
// time range, then the extra clauses in caller order.
func (a *Assembler) Assemble(req Request) Descriptor {
	var must []Clause
	for _, f := range req.Filters {
		if f.Value == "" {
			continue
		}
		must = append(must, Term(f.Field, f.Value))
	}

	if req.Period != "" {
		ref := req.Reference
		if ref.IsZero() {
			ref = a.resolver.Now()
		}
		must = append(must, TimeRange(TimestampField, a.resolver.ResolveAt(req.Period, ref)))
	}

	must = append(must, req.Extra...)

	size := req.Size
	if size <= 0 {
		size = DefaultSize
	}

	return Descriptor{Index: req.Index, Must: must, Size: size}
}
