package inventory

import (
	"context"
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

func smallSet() *catalog.Memory {
	return catalog.NewMemory(
		card.Printing{
			Name: "Card Ten", SetCode: "TST", CollectorNumber: "10", Rarity: card.RarityRare,
			Prices: map[card.Finish]*decimal.Decimal{
				card.FinishNonfoil: dec("2.00"),
				card.FinishFoil:    dec("5.00"),
			},
		},
		card.Printing{
			Name: "Card Two", SetCode: "TST", CollectorNumber: "2", Rarity: card.RarityCommon,
			Prices: map[card.Finish]*decimal.Decimal{card.FinishNonfoil: dec("0.05")},
		},
		card.Printing{
			Name: "Card Ten A", SetCode: "TST", CollectorNumber: "10a", Rarity: card.RarityUncommon,
			Prices: map[card.Finish]*decimal.Decimal{
				card.FinishEtched:  nil,
				card.FinishNonfoil: dec("0.25"),
			},
		},
	)
}

func TestBuildTemplateOrderingAndExpansion(t *testing.T) {
	rows, errs := BuildTemplate(context.Background(), smallSet(), []string{"TST"})
	require.Empty(t, errs)

	// One row per finish: 2 + 1 + 2.
	require.Len(t, rows, 5)

	// Collector number order is numeric-prefix first ("2" before "10"),
	// suffix second ("10" before "10a"); finishes nonfoil before foil/etched.
	got := make([][2]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, [2]string{r.CollectorNumber, string(r.Finish)})
	}
	assert.Equal(t, [][2]string{
		{"2", "nonfoil"},
		{"10", "nonfoil"},
		{"10", "foil"},
		{"10a", "nonfoil"},
		{"10a", "etched"},
	}, got)

	for _, r := range rows {
		assert.Zero(t, r.Quantity, "template rows start at quantity zero")
	}
}

func TestBuildTemplateCopiesPricesAndNil(t *testing.T) {
	rows, _ := BuildTemplate(context.Background(), smallSet(), []string{"TST"})

	byKey := make(map[string]Row)
	for _, r := range rows {
		byKey[r.CollectorNumber+"/"+string(r.Finish)] = r
	}

	require.NotNil(t, byKey["10/foil"].UnitPrice)
	assert.True(t, byKey["10/foil"].UnitPrice.Equal(decimal.RequireFromString("5.00")))
	assert.Nil(t, byKey["10a/etched"].UnitPrice, "existing but unpriced finish stays nil")
}

func TestBuildTemplateIsolatesSetErrors(t *testing.T) {
	rows, errs := BuildTemplate(context.Background(), smallSet(), []string{"NOPE", "TST"})

	require.Len(t, errs, 1)
	assert.Equal(t, "NOPE", errs[0].SetCode)
	assert.ErrorIs(t, errs[0].Err, catalog.ErrNotFound)
	assert.Len(t, rows, 5, "the failing set must not abort the others")
}

// Generating a template and valuing it untouched yields a zero grand total
// and one row per printing/finish.
func TestTemplateValuationRoundTrip(t *testing.T) {
	rows, errs := BuildTemplate(context.Background(), smallSet(), []string{"TST"})
	require.Empty(t, errs)

	priced, grandTotal := Calculate(rows)

	assert.Len(t, priced, 5)
	assert.True(t, grandTotal.IsZero())
}
