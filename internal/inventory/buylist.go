package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/kosarica/cardpricer/internal/card"
	"github.com/kosarica/cardpricer/internal/catalog"
)

// ConfigError is a fatal configuration problem (mutually exclusive filters
// supplied together, invalid tokens on the command surface). It aborts the
// run before any catalog access; no partial output is written.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// Filter is the immutable buylist configuration. IncludedFinishes and
// ExcludedFinishes are mutually exclusive inputs; supplying both is a
// ConfigError, never silently resolved.
type Filter struct {
	IncludedFinishes []card.Finish
	ExcludedFinishes []card.Finish
	MaxPrice         *decimal.Decimal
	MinPrice         *decimal.Decimal
	MinPriceByRarity map[card.Rarity]decimal.Decimal
}

// Validate checks the filter's structural invariants.
func (f Filter) Validate() error {
	if len(f.IncludedFinishes) > 0 && len(f.ExcludedFinishes) > 0 {
		return &ConfigError{Msg: "include-finishes and exclude-finishes are mutually exclusive"}
	}
	return nil
}

// allowsFinish applies the finish inclusion/exclusion rule.
func (f Filter) allowsFinish(finish card.Finish) bool {
	if len(f.IncludedFinishes) > 0 {
		return lo.Contains(f.IncludedFinishes, finish)
	}
	return !lo.Contains(f.ExcludedFinishes, finish)
}

// floorFor returns the effective price floor for a rarity: the rarity-tiered
// floor when configured for that rarity, else the general floor, else nil.
func (f Filter) floorFor(rarity card.Rarity) *decimal.Decimal {
	if floor, ok := f.MinPriceByRarity[rarity]; ok {
		return &floor
	}
	return f.MinPrice
}

// effectivePrice applies the floor rule: max(catalog price, floor) when the
// catalog price is known; a positive floor alone when it is not (unpriced
// cards still get a floor-based estimate); otherwise nil.
func (f Filter) effectivePrice(catalogPrice *decimal.Decimal, rarity card.Rarity) *decimal.Decimal {
	floor := f.floorFor(rarity)
	if catalogPrice != nil {
		if floor != nil && floor.GreaterThan(*catalogPrice) {
			return floor
		}
		return catalogPrice
	}
	if floor != nil && floor.IsPositive() {
		return floor
	}
	return nil
}

// BuylistRow is one needed (printing, finish) pair. UnitPrice is the
// effective price after flooring; TotalPrice is needed x unit price, zero
// when no price estimate exists.
type BuylistRow struct {
	CardName        string
	SetCode         string
	CollectorNumber string
	Rarity          card.Rarity
	Finish          card.Finish
	Owned           int
	Needed          int
	UnitPrice       *decimal.Decimal
	TotalPrice      decimal.Decimal
}

// Stats summarizes a buylist: row/copy counts, the estimated cost over
// priced rows, how many needed copies have no price estimate, and a
// needed-count breakdown by rarity.
type Stats struct {
	Rows           int
	TotalNeeded    int
	EstimatedCost  decimal.Decimal
	UnpricedNeeded int
	NeededByRarity map[card.Rarity]int
}

// BuildBuylist compares the requested sets against owned rows and emits the
// missing (printing, finish) pairs that pass the filter.
//
// Filtering order per row: finish inclusion/exclusion, then the price floor
// (which sets the effective unit price), then the price ceiling, which drops
// rows whose effective price exceeds MaxPrice (inclusive boundary: a row
// priced exactly at MaxPrice stays).
func BuildBuylist(ctx context.Context, cat catalog.Catalog, sets []string, owned []Row, filter Filter, copiesPerFinish int) ([]BuylistRow, Stats, []SetError, error) {
	if err := filter.Validate(); err != nil {
		return nil, Stats{}, nil, err
	}
	if copiesPerFinish < 1 {
		return nil, Stats{}, nil, &ConfigError{Msg: fmt.Sprintf("copies per finish must be >= 1, got %d", copiesPerFinish)}
	}

	ownedCount := make(map[string]int, len(owned))
	for _, row := range owned {
		ownedCount[ownedKey(row.SetCode, row.CollectorNumber, row.Finish)] += row.Quantity
	}

	template, setErrs := BuildTemplate(ctx, cat, sets)

	var rows []BuylistRow
	stats := Stats{NeededByRarity: make(map[card.Rarity]int)}

	for _, row := range template {
		if !filter.allowsFinish(row.Finish) {
			continue
		}

		have := ownedCount[ownedKey(row.SetCode, row.CollectorNumber, row.Finish)]
		needed := copiesPerFinish - have
		if needed <= 0 {
			continue
		}

		price := filter.effectivePrice(row.UnitPrice, row.Rarity)
		if filter.MaxPrice != nil && price != nil && price.GreaterThan(*filter.MaxPrice) {
			continue
		}

		blRow := BuylistRow{
			CardName:        row.CardName,
			SetCode:         row.SetCode,
			CollectorNumber: row.CollectorNumber,
			Rarity:          row.Rarity,
			Finish:          row.Finish,
			Owned:           have,
			Needed:          needed,
			UnitPrice:       price,
		}
		if price != nil {
			blRow.TotalPrice = price.Mul(decimal.NewFromInt(int64(needed)))
			stats.EstimatedCost = stats.EstimatedCost.Add(blRow.TotalPrice)
		} else {
			stats.UnpricedNeeded += needed
		}

		rows = append(rows, blRow)
		stats.Rows++
		stats.TotalNeeded += needed
		stats.NeededByRarity[row.Rarity] += needed
	}

	return rows, stats, setErrs, nil
}

func ownedKey(setCode, collectorNumber string, finish card.Finish) string {
	return strings.ToUpper(setCode) + "|" + collectorNumber + "|" + string(finish)
}
