package cardlist

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/kosarica/cardpricer/internal/card"
)

// Deck-export grammars, most specific first. The finish marker group is
// shared: *F*, [F], foil, *E*, [E], etched.
var (
	deckLineFull = regexp.MustCompile(
		`(?i)^(\d+)x?\s+(.+?)\s+\(([A-Za-z0-9]{3,5})\)\s+(\d+[a-z]?)\s*(\*F\*|\*E\*|\[F\]|\[E\]|foil|etched)?$`)
	deckLineSet = regexp.MustCompile(
		`(?i)^(\d+)x?\s+(.+?)\s+\(([A-Za-z0-9]{3,5})\)\s*(\*F\*|\*E\*|\[F\]|\[E\]|foil|etched)?$`)
	deckLineSimple = regexp.MustCompile(
		`(?i)^(\d+)x?\s+(.+?)(?:\s+(\*F\*|\*E\*|\[F\]|\[E\]|foil|etched))?$`)
)

// parseDeckText parses the Archidekt/Moxfield text export dialect.
func parseDeckText(content []byte, result *Result) {
	forEachDataLine(content, func(lineNumber int, line string) {
		req, err := parseDeckTextLine(line)
		if err != nil {
			result.Failures = append(result.Failures, Failure{
				LineNumber: lineNumber,
				Line:       line,
				Reason:     err.Error(),
			})
			return
		}
		result.Requests = append(result.Requests, req)
	})
}

func parseDeckTextLine(line string) (card.Request, error) {
	if m := deckLineFull.FindStringSubmatch(line); m != nil {
		return deckRequest(m[1], m[2], m[3], m[4], m[5])
	}
	if m := deckLineSet.FindStringSubmatch(line); m != nil {
		return deckRequest(m[1], m[2], m[3], "", m[4])
	}
	if m := deckLineSimple.FindStringSubmatch(line); m != nil {
		return deckRequest(m[1], m[2], "", "", m[3])
	}
	return card.Request{}, fmt.Errorf("line does not match deck export grammar")
}

func deckRequest(qty, name, setCode, number, marker string) (card.Request, error) {
	quantity, err := strconv.Atoi(qty)
	if err != nil {
		return card.Request{}, fmt.Errorf("invalid quantity %q", qty)
	}

	finish, err := parseFinishMarker(marker)
	if err != nil {
		return card.Request{}, err
	}

	code, err := normalizeSetCode(setCode)
	if err != nil {
		return card.Request{}, err
	}

	req := card.Request{
		Name:            name,
		SetCode:         code,
		CollectorNumber: number,
		Finish:          finish,
		Quantity:        quantity,
	}
	if err := req.Validate(); err != nil {
		return card.Request{}, err
	}
	return req, nil
}
