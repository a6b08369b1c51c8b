package catalog

import (
	"context"
	"strings"

	"github.com/kosarica/cardpricer/internal/card"
)

// Memory is an in-memory Catalog. It preserves insertion order, which makes
// min/max tie-breaking deterministic across runs for the same snapshot.
// Used by tests and as a per-run cache in front of a remote provider.
type Memory struct {
	printings []card.Printing
}

// NewMemory creates an in-memory catalog from a snapshot of printings.
func NewMemory(printings ...card.Printing) *Memory {
	m := &Memory{}
	m.Add(printings...)
	return m
}

// Add appends printings to the catalog.
func (m *Memory) Add(printings ...card.Printing) {
	m.printings = append(m.printings, printings...)
}

// Lookup implements Catalog.
func (m *Memory) Lookup(_ context.Context, name, setCode, collectorNumber string) ([]card.Printing, error) {
	var out []card.Printing
	for _, p := range m.printings {
		if !strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(name)) {
			continue
		}
		if setCode != "" && !strings.EqualFold(p.SetCode, setCode) {
			continue
		}
		if collectorNumber != "" && p.CollectorNumber != collectorNumber {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// ListSet implements Catalog.
func (m *Memory) ListSet(_ context.Context, setCode string) ([]card.Printing, error) {
	var out []card.Printing
	for _, p := range m.printings {
		if strings.EqualFold(p.SetCode, setCode) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// SetCache wraps a Catalog and memoizes ListSet results so inventory and
// buylist runs fetch each set at most once. Lookup passes through unchanged.
// Not safe for concurrent use; the engine is single-threaded.
type SetCache struct {
	inner Catalog
	sets  map[string][]card.Printing
}

// NewSetCache wraps a catalog with per-run set memoization.
func NewSetCache(inner Catalog) *SetCache {
	return &SetCache{inner: inner, sets: make(map[string][]card.Printing)}
}

// Lookup implements Catalog.
func (c *SetCache) Lookup(ctx context.Context, name, setCode, collectorNumber string) ([]card.Printing, error) {
	return c.inner.Lookup(ctx, name, setCode, collectorNumber)
}

// ListSet implements Catalog. Only successful results are cached; not-found
// and fetch errors are returned as-is so a transient failure can be retried
// by a later run.
func (c *SetCache) ListSet(ctx context.Context, setCode string) ([]card.Printing, error) {
	key := strings.ToUpper(setCode)
	if cached, ok := c.sets[key]; ok {
		return cached, nil
	}
	printings, err := c.inner.ListSet(ctx, setCode)
	if err != nil {
		return nil, err
	}
	c.sets[key] = printings
	return printings, nil
}
