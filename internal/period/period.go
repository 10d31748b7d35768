// Package period turns natural-language period expressions ("ontem",
// "há 2 horas", "24 de novembro às 14h", "last week") into concrete time
// windows.
//
// Resolution never fails: every input, including empty or nonsensical text,
// yields a window ending no earlier than it starts.
package period

import (
	"time"
)

// Range is a closed time window. Both bounds are UTC instants.
type Range struct {
	Gte time.Time `json:"gte"`
	Lte time.Time `json:"lte"`
}

// Duration returns the length of the window.
func (r Range) Duration() time.Duration {
	return r.Lte.Sub(r.Gte)
}

// valid reports whether the window is well formed.
func (r Range) valid() bool {
	return !r.Gte.IsZero() && !r.Lte.Before(r.Gte)
}

// Strategy tries to interpret text relative to ref. It returns false when the
// text is not something it understands.
type Strategy func(text string, ref time.Time) (Range, bool)

// Resolver applies strategies in order; the first match wins. When none
// matches, the last 24 hours before the reference instant are used.
type Resolver struct {
	strategies []Strategy
	now        func() time.Time // injectable for testing
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock sets the clock used when no reference instant is supplied.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithStrategies replaces the default strategy chain.
func WithStrategies(strategies ...Strategy) Option {
	return func(r *Resolver) { r.strategies = strategies }
}

// New creates a Resolver with the default chain: absolute instant, named
// keyword, relative quantity.
func New(opts ...Option) *Resolver {
	r := &Resolver{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	if r.strategies == nil {
		r.strategies = DefaultStrategies()
	}
	return r
}

// DefaultStrategies returns the standard resolution chain.
func DefaultStrategies() []Strategy {
	return []Strategy{
		Absolute(NewDateParser()),
		Keyword,
		Relative,
	}
}

// Now returns the resolver clock's current instant in UTC.
func (r *Resolver) Now() time.Time {
	return r.now().UTC()
}

// Resolve resolves text against the resolver clock.
func (r *Resolver) Resolve(text string) Range {
	return r.ResolveAt(text, r.Now())
}

// ResolveAt resolves text against an explicit reference instant.
func (r *Resolver) ResolveAt(text string, ref time.Time) Range {
	ref = ref.UTC()
	for _, s := range r.strategies {
		if rng, ok := s(text, ref); ok && rng.valid() {
			return Range{Gte: rng.Gte.UTC(), Lte: rng.Lte.UTC()}
		}
	}
	return Default(ref)
}

// Default is the fallback window: the 24 hours ending at ref.
func Default(ref time.Time) Range {
	ref = ref.UTC()
	return Range{Gte: ref.Add(-24 * time.Hour), Lte: ref}
}

// startOfDay returns UTC midnight of t's day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
