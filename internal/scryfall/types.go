package scryfall

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kosarica/cardpricer/internal/card"
)

// apiCard is the subset of a Scryfall card object this tool consumes.
// Prices arrive as strings; a JSON null means the finish exists but has no
// current market price.
type apiCard struct {
	Name            string    `json:"name"`
	Set             string    `json:"set"`
	CollectorNumber string    `json:"collector_number"`
	Rarity          string    `json:"rarity"`
	Finishes        []string  `json:"finishes"`
	Prices          apiPrices `json:"prices"`
}

type apiPrices struct {
	USD       *string `json:"usd"`
	USDFoil   *string `json:"usd_foil"`
	USDEtched *string `json:"usd_etched"`
}

// searchPage is one page of a /cards/search response.
type searchPage struct {
	Data     []apiCard `json:"data"`
	HasMore  bool      `json:"has_more"`
	NextPage string    `json:"next_page"`
}

// apiError is Scryfall's error envelope.
type apiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

// toPrinting converts an API card to the domain printing. Unknown finish
// tokens are skipped; unparsable price strings are treated as unpriced.
func (c apiCard) toPrinting() card.Printing {
	p := card.Printing{
		Name:            c.Name,
		SetCode:         strings.ToUpper(c.Set),
		CollectorNumber: c.CollectorNumber,
		Rarity:          parseRarity(c.Rarity),
		Prices:          make(map[card.Finish]*decimal.Decimal),
	}

	finishes := c.Finishes
	if len(finishes) == 0 {
		finishes = []string{string(card.FinishNonfoil)}
	}
	for _, raw := range finishes {
		finish, err := card.ParseFinish(raw)
		if err != nil {
			continue
		}
		p.Prices[finish] = c.priceFor(finish)
	}
	return p
}

func (c apiCard) priceFor(finish card.Finish) *decimal.Decimal {
	var raw *string
	switch finish {
	case card.FinishNonfoil:
		raw = c.Prices.USD
	case card.FinishFoil:
		raw = c.Prices.USDFoil
	case card.FinishEtched:
		raw = c.Prices.USDEtched
	}
	if raw == nil {
		return nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil
	}
	return &d
}

// parseRarity keeps Scryfall's occasional extra tiers ("special", "bonus")
// as-is instead of dropping the card.
func parseRarity(raw string) card.Rarity {
	r, err := card.ParseRarity(raw)
	if err != nil {
		return card.Rarity(strings.ToLower(strings.TrimSpace(raw)))
	}
	return r
}
