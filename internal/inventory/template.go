package inventory

import (
	"context"
	"sort"
	"strings"

	"github.com/kosarica/cardpricer/internal/card"
	"github.com/kosarica/cardpricer/internal/catalog"
)

// SetError records a set whose printings could not be fetched. One failing
// set does not abort the remaining sets.
type SetError struct {
	SetCode string
	Err     error
}

func (e SetError) Error() string {
	return "set " + e.SetCode + ": " + e.Err.Error()
}

// BuildTemplate emits one zero-quantity row per finish for every printing in
// every requested set, with catalog prices copied in (nil when unpriced).
// Row order: sets in input order, then collector number
// (lexicographic-numeric), then finish nonfoil, foil, etched.
func BuildTemplate(ctx context.Context, cat catalog.Catalog, sets []string) ([]Row, []SetError) {
	var rows []Row
	var errs []SetError

	for _, set := range sets {
		printings, err := cat.ListSet(ctx, set)
		if err != nil {
			errs = append(errs, SetError{SetCode: strings.ToUpper(set), Err: err})
			continue
		}
		rows = append(rows, expandSet(printings)...)
	}

	return rows, errs
}

// expandSet expands a set's printings into per-finish rows, sorted within
// the set.
func expandSet(printings []card.Printing) []Row {
	sorted := make([]card.Printing, len(printings))
	copy(sorted, printings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return card.CompareCollectorNumbers(sorted[i].CollectorNumber, sorted[j].CollectorNumber) < 0
	})

	var rows []Row
	for _, p := range sorted {
		for _, finish := range p.Finishes() {
			rows = append(rows, Row{
				CardName:        p.Name,
				SetCode:         p.SetCode,
				CollectorNumber: p.CollectorNumber,
				Rarity:          p.Rarity,
				Finish:          finish,
				UnitPrice:       p.Price(finish),
				Quantity:        0,
			})
		}
	}
	return rows
}
