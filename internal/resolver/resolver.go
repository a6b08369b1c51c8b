// Package resolver matches normalized card requests against the catalog
// using a three-tier policy: exact printing, set-filtered, then global.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/kosarica/cardpricer/internal/card"
	"github.com/kosarica/cardpricer/internal/catalog"
)

// Mode records which resolution tier produced a match.
type Mode string

const (
	ModeExact       Mode = "exact"
	ModeSetFiltered Mode = "set_filtered"
	ModeGlobal      Mode = "global"
)

// Result is the outcome of resolving one request. Printings holds only the
// printings that survived the finish filter, in catalog iteration order.
type Result struct {
	Request   card.Request
	Mode      Mode
	Finish    card.Finish
	Printings []card.Printing
}

// FinishUnavailableError reports that a request matched structurally but no
// printing carries the requested finish. Kept distinct from catalog
// not-found so output can say "not found in nonfoil" instead of "not found".
type FinishUnavailableError struct {
	Finish card.Finish
	Mode   Mode
}

func (e *FinishUnavailableError) Error() string {
	return fmt.Sprintf("no printing available in %s finish", e.Finish)
}

// Resolver resolves requests against a catalog, optionally under a global
// set restriction that is authoritative over per-request set codes.
type Resolver struct {
	catalog        catalog.Catalog
	setRestriction string
}

// New creates a resolver. setRestriction may be empty for no restriction.
func New(cat catalog.Catalog, setRestriction string) *Resolver {
	return &Resolver{
		catalog:        cat,
		setRestriction: strings.ToUpper(strings.TrimSpace(setRestriction)),
	}
}

// Resolve applies the resolution policy to one request.
//
// Tiers, stopping at the first that applies structurally:
//  1. exact: set code and collector number both present
//  2. set-filtered: set code present, or a global set restriction is active
//  3. global: all printings of the name across every set
//
// The finish filter applies after structural matching: only printings
// carrying the requested finish (nonfoil when unspecified) are retained.
// Errors are catalog.ErrNotFound, *catalog.FetchError, or
// *FinishUnavailableError; the caller flags the row and continues the batch.
func (r *Resolver) Resolve(ctx context.Context, req card.Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	mode, setCode := r.plan(req)

	// A global restriction is authoritative: an exact request for another
	// set is not silently re-scoped, it just does not match.
	if r.setRestriction != "" && req.SetCode != "" && req.SetCode != r.setRestriction {
		return nil, catalog.ErrNotFound
	}

	var (
		printings []card.Printing
		err       error
	)
	switch mode {
	case ModeExact:
		printings, err = r.catalog.Lookup(ctx, req.Name, setCode, req.CollectorNumber)
	case ModeSetFiltered:
		printings, err = r.catalog.Lookup(ctx, req.Name, setCode, "")
	default:
		printings, err = r.catalog.Lookup(ctx, req.Name, "", "")
	}
	if err != nil {
		return nil, err
	}

	finish := req.EffectiveFinish()
	survivors := make([]card.Printing, 0, len(printings))
	for _, p := range printings {
		if p.HasFinish(finish) {
			survivors = append(survivors, p)
		}
	}
	if len(survivors) == 0 {
		return nil, &FinishUnavailableError{Finish: finish, Mode: mode}
	}

	return &Result{
		Request:   req,
		Mode:      mode,
		Finish:    finish,
		Printings: survivors,
	}, nil
}

// plan selects the resolution tier and the set code it operates on.
func (r *Resolver) plan(req card.Request) (Mode, string) {
	switch {
	case req.SetCode != "" && req.CollectorNumber != "":
		return ModeExact, req.SetCode
	case req.SetCode != "":
		return ModeSetFiltered, req.SetCode
	case r.setRestriction != "":
		return ModeSetFiltered, r.setRestriction
	default:
		return ModeGlobal, ""
	}
}
