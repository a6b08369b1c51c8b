// Package inventory builds set inventory templates, values filled
// inventories, and generates filtered buylists.
package inventory

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/kosarica/cardpricer/internal/card"
)

// Row is one (printing, finish) pair with ownership and pricing state.
// UnitPrice is nil when the finish exists but has no market price; that must
// surface as blank output, never $0.00.
type Row struct {
	CardName        string
	SetCode         string
	CollectorNumber string
	Rarity          card.Rarity
	Finish          card.Finish
	UnitPrice       *decimal.Decimal
	Quantity        int
	TotalPrice      decimal.Decimal
}

// Calculate recomputes per-row totals and the grand total over already
// priced rows: total = quantity x unit price, zero when unpriced. Pure and
// idempotent; no catalog access, no filtering.
func Calculate(rows []Row) ([]Row, decimal.Decimal) {
	priced := make([]Row, len(rows))
	for i, r := range rows {
		if r.UnitPrice != nil {
			r.TotalPrice = r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
		} else {
			r.TotalPrice = decimal.Zero
		}
		priced[i] = r
	}

	grandTotal := lo.Reduce(priced, func(acc decimal.Decimal, r Row, _ int) decimal.Decimal {
		return acc.Add(r.TotalPrice)
	}, decimal.Zero)

	return priced, grandTotal
}

// TotalQuantity sums row quantities.
func TotalQuantity(rows []Row) int {
	return lo.SumBy(rows, func(r Row) int { return r.Quantity })
}
