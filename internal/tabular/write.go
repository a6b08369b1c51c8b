package tabular

import (
	"strconv"

	"github.com/kosarica/cardpricer/internal/inventory"
	"github.com/kosarica/cardpricer/internal/pricing"
)

// SummariesTable renders list-pricing summaries. Exact-printing summaries
// carry one price in both the min and max columns; range summaries show
// "Multiple" for set/number when the match spanned more than one printing.
func SummariesTable(summaries []pricing.Summary) *Table {
	t := &Table{
		Header: []string{
			"card_name", "set", "collector_number", "finish",
			"min_price", "max_price", "min_printing", "max_printing",
		},
	}
	for _, s := range summaries {
		t.Rows = append(t.Rows, summaryRow(s))
	}
	return t
}

func summaryRow(s pricing.Summary) []string {
	name := s.Request.Name
	set := s.Request.SetCode
	number := s.Request.CollectorNumber

	switch s.Status {
	case pricing.StatusOK:
		// Prefer the resolved printing's canonical name.
		name = s.Min.Printing.Name
		if s.Exact {
			p := s.Min
			return []string{
				name, p.Printing.SetCode, p.Printing.CollectorNumber, string(s.Finish),
				Money(&p.Price), Money(&p.Price), p.Label(), p.Label(),
			}
		}
		if s.Multiple() {
			if set == "" {
				set = MarkerMultiple
			}
			number = MarkerMultiple
		} else {
			set = s.Min.Printing.SetCode
			number = s.Min.Printing.CollectorNumber
		}
		return []string{
			name, set, number, string(s.Finish),
			Money(&s.Min.Price), Money(&s.Max.Price), s.Min.Label(), s.Max.Label(),
		}

	case pricing.StatusNoPriceData:
		return []string{name, orBlank(set), orBlank(number), string(s.Finish),
			MarkerNoPriceData, MarkerNoPriceData, MarkerBlank, MarkerBlank}

	case pricing.StatusFinishUnavailable:
		marker := "Not Found in " + string(s.Finish)
		return []string{name, orBlank(set), orBlank(number), string(s.Finish),
			marker, marker, MarkerBlank, MarkerBlank}

	case pricing.StatusFetchError:
		return []string{name, orBlank(set), orBlank(number), string(s.Finish),
			MarkerFetchError, MarkerFetchError, MarkerBlank, MarkerBlank}

	default:
		return []string{name, orBlank(set), orBlank(number), string(s.Finish),
			MarkerNotFound, MarkerNotFound, MarkerBlank, MarkerBlank}
	}
}

func orBlank(s string) string {
	if s == "" {
		return MarkerBlank
	}
	return s
}

// TemplateTable renders inventory template rows: prices pre-filled, an empty
// quantity column for the user to fill in.
func TemplateTable(rows []inventory.Row) *Table {
	t := &Table{
		Header: []string{
			"card_name", "set", "collector_number", "rarity", "finish",
			"unit_price", "quantity",
		},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.CardName, r.SetCode, r.CollectorNumber, string(r.Rarity),
			string(r.Finish), Money(r.UnitPrice), "",
		})
	}
	return t
}

// ValuationTable renders priced inventory rows with per-row totals.
func ValuationTable(rows []inventory.Row) *Table {
	t := &Table{
		Header: []string{
			"card_name", "set", "collector_number", "rarity", "finish",
			"quantity", "unit_price", "total_price",
		},
	}
	for _, r := range rows {
		total := MarkerNoPriceData
		unit := MarkerNoPriceData
		if r.UnitPrice != nil {
			unit = Money(r.UnitPrice)
			tp := r.TotalPrice
			total = Money(&tp)
		}
		t.Rows = append(t.Rows, []string{
			r.CardName, r.SetCode, r.CollectorNumber, string(r.Rarity),
			string(r.Finish), strconv.Itoa(r.Quantity), unit, total,
		})
	}
	return t
}

// BuylistTable renders buylist rows with the owned/needed pair and the
// effective (floored) unit price.
func BuylistTable(rows []inventory.BuylistRow) *Table {
	t := &Table{
		Header: []string{
			"card_name", "set", "collector_number", "rarity", "finish",
			"owned", "needed", "unit_price", "total_price",
		},
	}
	for _, r := range rows {
		total := MarkerBlank
		if r.UnitPrice != nil {
			tp := r.TotalPrice
			total = Money(&tp)
		}
		t.Rows = append(t.Rows, []string{
			r.CardName, r.SetCode, r.CollectorNumber, string(r.Rarity),
			string(r.Finish), strconv.Itoa(r.Owned), strconv.Itoa(r.Needed),
			Money(r.UnitPrice), total,
		})
	}
	return t
}
