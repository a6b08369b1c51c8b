// Package catalog defines the read-only catalog/pricing provider boundary.
// Implementations must distinguish "card or set not found" (ErrNotFound) from
// transient transport failures (*FetchError); the engine retries neither.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/kosarica/cardpricer/internal/card"
)

// ErrNotFound reports that the requested card, printing, or set does not
// exist in the catalog. Distinct from a fetch failure.
var ErrNotFound = errors.New("not found in catalog")

// FetchError reports a transport or provider failure for one request.
// It is recoverable per-request: the batch continues and the row is flagged.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("catalog fetch failed (%s): %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err is a provider transport failure.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// Catalog is the external source of truth for printings and prices.
// Data returned within one run is treated as an immutable snapshot.
type Catalog interface {
	// Lookup returns all printings matching a card name, optionally narrowed
	// to a set, or the single printing identified by set plus collector
	// number. Returns ErrNotFound when nothing matches.
	Lookup(ctx context.Context, name, setCode, collectorNumber string) ([]card.Printing, error)

	// ListSet returns every printing in a set, in the provider's canonical
	// order. Returns ErrNotFound for an unknown set code.
	ListSet(ctx context.Context, setCode string) ([]card.Printing, error)
}
