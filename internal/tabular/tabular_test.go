package tabular

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosarica/cardpricer/internal/card"
	"github.com/kosarica/cardpricer/internal/inventory"
	"github.com/kosarica/cardpricer/internal/pricing"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$12.00", Money(dec("12")))
	assert.Equal(t, "$0.15", Money(dec("0.15")))
	assert.Equal(t, "", Money(nil), "missing price renders blank, never $0.00")
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name     string
		cell     string
		expected *decimal.Decimal
		wantErr  bool
	}{
		{name: "dollar prefixed", cell: "$12.00", expected: dec("12.00")},
		{name: "bare number", cell: "0.15", expected: dec("0.15")},
		{name: "blank is nil", cell: "", expected: nil},
		{name: "N/A is nil", cell: "N/A", expected: nil},
		{name: "no price marker is nil", cell: MarkerNoPriceData, expected: nil},
		{name: "garbage", cell: "$abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseMoney(tt.cell)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.expected == nil {
				assert.Nil(t, d)
			} else {
				require.NotNil(t, d)
				assert.True(t, tt.expected.Equal(*d))
			}
		})
	}
}

func rangeSummary() pricing.Summary {
	cheap := pricing.Point{
		Printing: card.Printing{Name: "Lightning Bolt", SetCode: "2XM", CollectorNumber: "129"},
		Finish:   card.FinishNonfoil,
		Price:    decimal.RequireFromString("0.15"),
	}
	dear := pricing.Point{
		Printing: card.Printing{Name: "Lightning Bolt", SetCode: "LEA", CollectorNumber: "161"},
		Finish:   card.FinishNonfoil,
		Price:    decimal.RequireFromString("45.00"),
	}
	return pricing.Summary{
		Request: card.Request{Name: "Lightning Bolt", Quantity: 1},
		Finish:  card.FinishNonfoil,
		Status:  pricing.StatusOK,
		Matched: 2,
		Min:     &cheap,
		Max:     &dear,
	}
}

func TestSummariesTable(t *testing.T) {
	exact := pricing.Point{
		Printing: card.Printing{Name: "Tarmogoyf", SetCode: "FUT", CollectorNumber: "153"},
		Finish:   card.FinishNonfoil,
		Price:    decimal.RequireFromString("12.00"),
	}

	table := SummariesTable([]pricing.Summary{
		rangeSummary(),
		{
			Request: card.Request{Name: "Tarmogoyf", SetCode: "FUT", CollectorNumber: "153", Quantity: 1},
			Finish:  card.FinishNonfoil,
			Status:  pricing.StatusOK,
			Exact:   true,
			Matched: 1,
			Min:     &exact,
			Max:     &exact,
		},
		{
			Request: card.Request{Name: "Fake Card", Quantity: 1},
			Finish:  card.FinishNonfoil,
			Status:  pricing.StatusNotFound,
		},
	})

	require.Len(t, table.Rows, 3)

	multi := table.Rows[0]
	assert.Equal(t, []string{
		"Lightning Bolt", "Multiple", "Multiple", "nonfoil",
		"$0.15", "$45.00", "2XM #129 (nonfoil)", "LEA #161 (nonfoil)",
	}, multi)

	single := table.Rows[1]
	assert.Equal(t, "$12.00", single[4])
	assert.Equal(t, "$12.00", single[5], "exact requests carry one price, not a range")
	assert.Equal(t, "FUT", single[1])

	notFound := table.Rows[2]
	assert.Equal(t, MarkerNotFound, notFound[4])
	assert.Equal(t, "Fake Card", notFound[0], "not-found requests still occupy a row")
}

func TestSummariesTableDistinguishesFinishUnavailable(t *testing.T) {
	table := SummariesTable([]pricing.Summary{
		{Request: card.Request{Name: "A", Quantity: 1}, Finish: card.FinishNonfoil, Status: pricing.StatusNotFound},
		{Request: card.Request{Name: "B", Quantity: 1}, Finish: card.FinishNonfoil, Status: pricing.StatusFinishUnavailable},
	})

	assert.NotEqual(t, table.Rows[0][4], table.Rows[1][4],
		"not-found-at-all and not-found-in-finish must render differently")
	assert.Contains(t, table.Rows[1][4], "nonfoil")
}

func TestTemplateTableLeavesQuantityBlank(t *testing.T) {
	table := TemplateTable([]inventory.Row{
		{CardName: "Sol Ring", SetCode: "C21", CollectorNumber: "263", Rarity: card.RarityUncommon,
			Finish: card.FinishNonfoil, UnitPrice: dec("1.50")},
		{CardName: "Sol Ring", SetCode: "C21", CollectorNumber: "263", Rarity: card.RarityUncommon,
			Finish: card.FinishEtched, UnitPrice: nil},
	})

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "$1.50", table.Rows[0][5])
	assert.Equal(t, "", table.Rows[0][6], "quantity column left for the user")
	assert.Equal(t, "", table.Rows[1][5], "unpriced finish is blank, not $0.00")
}

func TestWriteReadInventoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.csv")

	rows := []inventory.Row{
		{CardName: "Sol Ring", SetCode: "C21", CollectorNumber: "263", Rarity: card.RarityUncommon,
			Finish: card.FinishNonfoil, UnitPrice: dec("1.50"), Quantity: 4},
		{CardName: "Mystic Remora", SetCode: "C21", CollectorNumber: "120", Rarity: card.RarityCommon,
			Finish: card.FinishFoil, UnitPrice: nil, Quantity: 1},
	}
	priced, _ := inventory.Calculate(rows)

	require.NoError(t, ValuationTable(priced).Write(path))

	got, problems, err := ReadInventory(path)
	require.NoError(t, err)
	assert.Empty(t, problems)
	require.Len(t, got, 2)

	assert.Equal(t, "Sol Ring", got[0].CardName)
	assert.Equal(t, 4, got[0].Quantity)
	require.NotNil(t, got[0].UnitPrice)
	assert.True(t, got[0].UnitPrice.Equal(decimal.RequireFromString("1.50")))

	assert.Nil(t, got[1].UnitPrice, "no-price marker reads back as nil")
	assert.Equal(t, card.FinishFoil, got[1].Finish)
}

func TestWriteReadInventoryXLSXRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.xlsx")

	rows := []inventory.Row{
		{CardName: "Sol Ring", SetCode: "C21", CollectorNumber: "263", Rarity: card.RarityUncommon,
			Finish: card.FinishNonfoil, UnitPrice: dec("1.50"), Quantity: 2},
	}

	require.NoError(t, TemplateTable(rows).Write(path))

	got, problems, err := ReadInventory(path)
	require.NoError(t, err)
	assert.Empty(t, problems)
	require.Len(t, got, 1)
	assert.Equal(t, "Sol Ring", got[0].CardName)
	assert.Equal(t, 0, got[0].Quantity, "blank quantity reads back as zero")
}

func TestReadInventoryCollectsRowProblems(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")

	content := strings.Join([]string{
		"card_name,set,collector_number,rarity,finish,unit_price,quantity",
		"Sol Ring,C21,263,uncommon,nonfoil,$1.50,2",
		"Bad Finish,C21,264,common,holo,$0.10,1",
		"Bad Quantity,C21,265,common,nonfoil,$0.10,lots",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, problems, err := ReadInventory(path)
	require.NoError(t, err)

	assert.Len(t, rows, 1, "bad rows are skipped, not fatal")
	require.Len(t, problems, 2)
	assert.Equal(t, 3, problems[0].RowNumber)
	assert.Contains(t, problems[1].Reason, "invalid quantity")
}

func TestReadInventoryMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.csv")
	require.NoError(t, os.WriteFile(path, []byte("card_name,set\nSol Ring,C21\n"), 0o644))

	_, _, err := ReadInventory(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestBuylistTable(t *testing.T) {
	table := BuylistTable([]inventory.BuylistRow{
		{CardName: "Mid Rare", SetCode: "TST", CollectorNumber: "2", Rarity: card.RarityRare,
			Finish: card.FinishNonfoil, Owned: 1, Needed: 1, UnitPrice: dec("10.00"),
			TotalPrice: decimal.RequireFromString("10.00")},
		{CardName: "Unpriced", SetCode: "TST", CollectorNumber: "4", Rarity: card.RarityUncommon,
			Finish: card.FinishEtched, Needed: 1},
	})

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "1", table.Rows[0][5])
	assert.Equal(t, "$10.00", table.Rows[0][7])
	assert.Equal(t, "", table.Rows[1][7], "unpriced buylist rows render blank")
}
