package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosarica/cardpricer/internal/card"
	"github.com/kosarica/cardpricer/internal/catalog"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func testCatalog() *catalog.Memory {
	return catalog.NewMemory(
		card.Printing{
			Name: "Lightning Bolt", SetCode: "LEA", CollectorNumber: "161", Rarity: card.RarityCommon,
			Prices: map[card.Finish]*decimal.Decimal{card.FinishNonfoil: dec("45.00")},
		},
		card.Printing{
			Name: "Lightning Bolt", SetCode: "2XM", CollectorNumber: "129", Rarity: card.RarityCommon,
			Prices: map[card.Finish]*decimal.Decimal{
				card.FinishNonfoil: dec("0.15"),
				card.FinishFoil:    dec("1.20"),
			},
		},
		card.Printing{
			Name: "Tarmogoyf", SetCode: "FUT", CollectorNumber: "153", Rarity: card.RarityRare,
			Prices: map[card.Finish]*decimal.Decimal{
				card.FinishNonfoil: dec("12.00"),
				card.FinishFoil:    nil,
			},
		},
		card.Printing{
			Name: "Foil Only Promo", SetCode: "PRM", CollectorNumber: "1", Rarity: card.RarityRare,
			Prices: map[card.Finish]*decimal.Decimal{card.FinishFoil: dec("3.00")},
		},
	)
}

func TestResolveGlobal(t *testing.T) {
	r := New(testCatalog(), "")

	res, err := r.Resolve(context.Background(), card.Request{Name: "Lightning Bolt", Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, ModeGlobal, res.Mode)
	assert.Equal(t, card.FinishNonfoil, res.Finish)
	assert.Len(t, res.Printings, 2)
}

func TestResolveSetFiltered(t *testing.T) {
	r := New(testCatalog(), "")

	res, err := r.Resolve(context.Background(), card.Request{Name: "Lightning Bolt", SetCode: "2XM", Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, ModeSetFiltered, res.Mode)
	require.Len(t, res.Printings, 1)
	assert.Equal(t, "2XM", res.Printings[0].SetCode)
}

func TestResolveExact(t *testing.T) {
	r := New(testCatalog(), "")

	res, err := r.Resolve(context.Background(), card.Request{Name: "Tarmogoyf", SetCode: "FUT", CollectorNumber: "153", Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, ModeExact, res.Mode)
	require.Len(t, res.Printings, 1)
	assert.Equal(t, "153", res.Printings[0].CollectorNumber)
}

func TestResolveCaseInsensitiveName(t *testing.T) {
	r := New(testCatalog(), "")

	res, err := r.Resolve(context.Background(), card.Request{Name: "  lightning BOLT ", Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, res.Printings, 2)
}

func TestResolveMisspelledNameNotFound(t *testing.T) {
	r := New(testCatalog(), "")

	_, err := r.Resolve(context.Background(), card.Request{Name: "Lightning Blot", Quantity: 1})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

// An unspecified finish means nonfoil-only, never "any finish".
func TestResolveUnspecifiedFinishNeverSubstitutes(t *testing.T) {
	r := New(testCatalog(), "")

	_, err := r.Resolve(context.Background(), card.Request{Name: "Foil Only Promo", Quantity: 1})

	var finishErr *FinishUnavailableError
	require.ErrorAs(t, err, &finishErr)
	assert.Equal(t, card.FinishNonfoil, finishErr.Finish)
}

func TestResolveFinishFilter(t *testing.T) {
	r := New(testCatalog(), "")

	res, err := r.Resolve(context.Background(), card.Request{Name: "Lightning Bolt", Finish: card.FinishFoil, Quantity: 1})
	require.NoError(t, err)

	require.Len(t, res.Printings, 1)
	assert.Equal(t, "2XM", res.Printings[0].SetCode)
}

// A finish present with a nil price still counts as existing; pricing
// handles the missing data downstream.
func TestResolveUnpricedFinishStillMatches(t *testing.T) {
	r := New(testCatalog(), "")

	res, err := r.Resolve(context.Background(), card.Request{Name: "Tarmogoyf", SetCode: "FUT", CollectorNumber: "153", Finish: card.FinishFoil, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, res.Printings, 1)
	assert.Nil(t, res.Printings[0].Price(card.FinishFoil))
}

func TestSetRestriction(t *testing.T) {
	t.Run("applies to requests without a set", func(t *testing.T) {
		r := New(testCatalog(), "2xm")

		res, err := r.Resolve(context.Background(), card.Request{Name: "Lightning Bolt", Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, ModeSetFiltered, res.Mode)
		require.Len(t, res.Printings, 1)
		assert.Equal(t, "2XM", res.Printings[0].SetCode)
	})

	t.Run("conflicting exact request is not found", func(t *testing.T) {
		r := New(testCatalog(), "2XM")

		_, err := r.Resolve(context.Background(), card.Request{Name: "Tarmogoyf", SetCode: "FUT", CollectorNumber: "153", Quantity: 1})
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("matching set passes through", func(t *testing.T) {
		r := New(testCatalog(), "FUT")

		res, err := r.Resolve(context.Background(), card.Request{Name: "Tarmogoyf", SetCode: "FUT", CollectorNumber: "153", Quantity: 1})
		require.NoError(t, err)
		assert.Equal(t, ModeExact, res.Mode)
	})
}

func TestResolvePropagatesFetchError(t *testing.T) {
	r := New(&failingCatalog{}, "")

	_, err := r.Resolve(context.Background(), card.Request{Name: "Lightning Bolt", Quantity: 1})
	assert.True(t, catalog.IsFetchError(err))
}

type failingCatalog struct{}

func (f *failingCatalog) Lookup(context.Context, string, string, string) ([]card.Printing, error) {
	return nil, &catalog.FetchError{Op: "lookup", Err: errors.New("connection refused")}
}

func (f *failingCatalog) ListSet(context.Context, string) ([]card.Printing, error) {
	return nil, &catalog.FetchError{Op: "list", Err: errors.New("connection refused")}
}
