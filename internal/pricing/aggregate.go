// Package pricing reduces resolved printings to per-request price summaries.
// All arithmetic stays in decimal; rendering to currency strings happens at
// the output boundary.
package pricing

import (
	"errors"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/kosarica/cardpricer/internal/card"
	"github.com/kosarica/cardpricer/internal/catalog"
	"github.com/kosarica/cardpricer/internal/resolver"
)

// Status classifies a summary row.
type Status string

const (
	// StatusOK means at least one priced printing was found.
	StatusOK Status = "ok"
	// StatusNotFound means the catalog has no structural match.
	StatusNotFound Status = "not_found"
	// StatusFinishUnavailable means printings exist but none in the
	// requested finish.
	StatusFinishUnavailable Status = "finish_unavailable"
	// StatusNoPriceData means the match exists in the requested finish but
	// every candidate is currently unpriced.
	StatusNoPriceData Status = "no_price_data"
	// StatusFetchError means the provider failed for this request; the rest
	// of the batch is unaffected.
	StatusFetchError Status = "fetch_error"
)

// Point is one priced (printing, finish) pair.
type Point struct {
	Printing card.Printing
	Finish   card.Finish
	Price    decimal.Decimal
}

// Label formats the point as "SET #NUMBER (finish)".
func (p Point) Label() string {
	return p.Printing.Label(p.Finish)
}

// Summary is the aggregation outcome for one request. Every request yields
// exactly one summary; failures occupy a row instead of being dropped.
type Summary struct {
	Request card.Request
	Finish  card.Finish
	Status  Status

	// Exact is set for single-printing requests: the summary is one price,
	// not a min/max pair.
	Exact bool

	Min *Point
	Max *Point

	// Matched counts printings that survived the finish filter.
	Matched int
}

// Multiple reports whether the match spanned more than one printing, which
// the output renders as a literal "Multiple" set/number.
func (s Summary) Multiple() bool {
	return s.Matched > 1
}

// Aggregate reduces a resolution result to a summary.
//
// With exactly one matched printing the summary carries a single price (or
// no-price-data when the finish exists unpriced). With several, min and max
// are scanned over all surviving pairs, skipping unpriced entries; each of
// min and max records its own source printing. Ties keep the earliest
// printing in catalog iteration order, so repeated runs over the same
// snapshot report the same printing.
func Aggregate(res *resolver.Result) Summary {
	s := Summary{
		Request: res.Request,
		Finish:  res.Finish,
		Matched: len(res.Printings),
		Exact:   res.Mode == resolver.ModeExact && len(res.Printings) == 1,
	}

	points := lo.FilterMap(res.Printings, func(p card.Printing, _ int) (Point, bool) {
		price := p.Price(res.Finish)
		if price == nil {
			return Point{}, false
		}
		return Point{Printing: p, Finish: res.Finish, Price: *price}, true
	})

	if len(points) == 0 {
		s.Status = StatusNoPriceData
		return s
	}

	lowest := points[0]
	highest := points[0]
	for _, pt := range points[1:] {
		if pt.Price.LessThan(lowest.Price) {
			lowest = pt
		}
		if pt.Price.GreaterThan(highest.Price) {
			highest = pt
		}
	}

	s.Status = StatusOK
	s.Min = &lowest
	s.Max = &highest
	return s
}

// SummaryForError builds the flagged summary for a request whose resolution
// failed. The error kinds stay distinguishable in output: not-found,
// not-found-in-finish, and provider fetch failure.
func SummaryForError(req card.Request, err error) Summary {
	s := Summary{
		Request: req,
		Finish:  req.EffectiveFinish(),
	}

	var finishErr *resolver.FinishUnavailableError
	switch {
	case errors.As(err, &finishErr):
		s.Status = StatusFinishUnavailable
	case errors.Is(err, catalog.ErrNotFound):
		s.Status = StatusNotFound
	case catalog.IsFetchError(err):
		s.Status = StatusFetchError
	default:
		s.Status = StatusFetchError
	}
	return s
}
