package card

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Finish represents the physical treatment of a printing.
type Finish string

const (
	FinishNonfoil Finish = "nonfoil"
	FinishFoil    Finish = "foil"
	FinishEtched  Finish = "etched"
)

// AllFinishes lists the known finishes in canonical output order.
var AllFinishes = []Finish{FinishNonfoil, FinishFoil, FinishEtched}

// ParseFinish parses a finish token (any case). Returns an error for
// unrecognized tokens rather than guessing.
func ParseFinish(token string) (Finish, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "nonfoil", "non-foil":
		return FinishNonfoil, nil
	case "foil":
		return FinishFoil, nil
	case "etched":
		return FinishEtched, nil
	default:
		return "", fmt.Errorf("unknown finish %q", token)
	}
}

// Order returns the sort position of a finish (nonfoil first, etched last).
func (f Finish) Order() int {
	switch f {
	case FinishNonfoil:
		return 0
	case FinishFoil:
		return 1
	case FinishEtched:
		return 2
	default:
		return 3
	}
}

// Rarity represents a printing's rarity tier.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityMythic   Rarity = "mythic"
)

// AllRarities lists the known rarities from lowest to highest tier.
var AllRarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityMythic}

// ParseRarity parses a rarity token (any case).
func ParseRarity(token string) (Rarity, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "common":
		return RarityCommon, nil
	case "uncommon":
		return RarityUncommon, nil
	case "rare":
		return RarityRare, nil
	case "mythic", "mythic rare":
		return RarityMythic, nil
	default:
		return "", fmt.Errorf("unknown rarity %q", token)
	}
}

// Request is a normalized card query parsed from one input line or row.
// Name keeps its original casing for display; matching is case-insensitive.
// An empty Finish means "unspecified", which downstream resolution treats as
// nonfoil-only, never "any finish".
type Request struct {
	Name            string
	SetCode         string // uppercase, empty when absent
	CollectorNumber string // set-scoped, empty when absent
	Finish          Finish // empty when unspecified
	Quantity        int
}

// Validate checks the structural invariants of a request.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("card name is required")
	}
	if r.CollectorNumber != "" && r.SetCode == "" {
		return fmt.Errorf("collector number %q given without a set code", r.CollectorNumber)
	}
	if r.Quantity < 0 {
		return fmt.Errorf("quantity must be >= 0, got %d", r.Quantity)
	}
	return nil
}

// EffectiveFinish returns the finish used for matching: the requested one,
// or nonfoil when the request left it unspecified.
func (r Request) EffectiveFinish() Finish {
	if r.Finish == "" {
		return FinishNonfoil
	}
	return r.Finish
}

// NameEquals compares a candidate name against the request name,
// case-insensitively and ignoring surrounding whitespace.
func (r Request) NameEquals(name string) bool {
	return strings.EqualFold(strings.TrimSpace(r.Name), strings.TrimSpace(name))
}

// Printing is one catalog record, keyed by (SetCode, CollectorNumber).
// A finish absent from Prices does not exist for this printing; a present
// finish with a nil price exists but currently has no market price.
type Printing struct {
	Name            string
	SetCode         string
	CollectorNumber string
	Rarity          Rarity
	Prices          map[Finish]*decimal.Decimal
}

// HasFinish reports whether the printing exists in the given finish.
func (p Printing) HasFinish(f Finish) bool {
	_, ok := p.Prices[f]
	return ok
}

// Price returns the price for a finish, or nil when the finish does not
// exist or has no price data.
func (p Printing) Price(f Finish) *decimal.Decimal {
	return p.Prices[f]
}

// Finishes returns the printing's finishes in canonical order.
func (p Printing) Finishes() []Finish {
	out := make([]Finish, 0, len(p.Prices))
	for _, f := range AllFinishes {
		if p.HasFinish(f) {
			out = append(out, f)
		}
	}
	return out
}

// Label formats a printing/finish pair as "SET #NUMBER (finish)".
func (p Printing) Label(f Finish) string {
	return fmt.Sprintf("%s #%s (%s)", p.SetCode, p.CollectorNumber, f)
}

// CompareCollectorNumbers orders collector numbers lexicographic-numerically:
// the numeric prefix compares as an integer, any suffix compares as a string,
// so "2" < "10" and "10" < "10a" < "10b".
func CompareCollectorNumbers(a, b string) int {
	aNum, aSuffix := splitCollectorNumber(a)
	bNum, bSuffix := splitCollectorNumber(b)
	if aNum != bNum {
		if aNum < bNum {
			return -1
		}
		return 1
	}
	return strings.Compare(aSuffix, bSuffix)
}

func splitCollectorNumber(n string) (int, string) {
	i := 0
	for i < len(n) && n[i] >= '0' && n[i] <= '9' {
		i++
	}
	num, err := strconv.Atoi(n[:i])
	if err != nil {
		// No numeric prefix, sort after all numbered cards.
		return int(^uint(0) >> 1), n
	}
	return num, n[i:]
}
