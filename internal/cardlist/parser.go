// Package cardlist parses human-authored card lists in four dialects into
// normalized requests. Malformed lines are collected as failures and reported
// together; they never abort the batch.
package cardlist

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kosarica/cardpricer/internal/card"
)

// Failure records one line or row that could not be parsed. The original
// text is kept so all failures can be surfaced together at the end of a run.
type Failure struct {
	LineNumber int
	Line       string
	Reason     string
}

func (f Failure) Error() string {
	return fmt.Sprintf("line %d: %s (%q)", f.LineNumber, f.Reason, f.Line)
}

// Result holds the outcome of parsing one input: the requests that parsed,
// the failures that did not, and the dialect the input was classified as.
type Result struct {
	Dialect  Dialect
	Requests []card.Request
	Failures []Failure
}

// TotalLines returns the number of data lines the input contributed.
func (r *Result) TotalLines() int {
	return len(r.Requests) + len(r.Failures)
}

type parseFunc func(content []byte, result *Result)

// Fixed dispatch table; DetectDialect picks the entry once per input.
var dialectParsers = map[Dialect]parseFunc{
	DialectPipe:       parsePipe,
	DialectDeckText:   parseDeckText,
	DialectGenericCSV: parseGenericCSV,
	DialectNamedCSV:   parseNamedCSV,
}

// Parse sniffs the dialect of content and parses every line with that
// dialect's grammar.
func Parse(content []byte) *Result {
	return ParseAs(content, DetectDialect(content))
}

// ParseAs parses content with an explicitly chosen dialect.
func ParseAs(content []byte, dialect Dialect) *Result {
	result := &Result{Dialect: dialect}
	parse, ok := dialectParsers[dialect]
	if !ok {
		parse = parsePipe
	}
	parse(content, result)
	return result
}

var setCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{3,5}$`)

func normalizeSetCode(raw string) (string, error) {
	code := strings.TrimSpace(raw)
	if code == "" {
		return "", nil
	}
	if !setCodePattern.MatchString(code) {
		return "", fmt.Errorf("invalid set code %q", raw)
	}
	return strings.ToUpper(code), nil
}

// parseFinishMarker maps the finish-marker synonyms to a finish:
// *F*, [F], foil -> foil; *E*, [E], etched -> etched. An empty marker means
// unspecified; anything else is an error for that line.
func parseFinishMarker(marker string) (card.Finish, error) {
	m := strings.ToLower(strings.TrimSpace(marker))
	switch m {
	case "":
		return "", nil
	case "*f*", "[f]", "foil":
		return card.FinishFoil, nil
	case "*e*", "[e]", "etched":
		return card.FinishEtched, nil
	case "nonfoil", "non-foil":
		return card.FinishNonfoil, nil
	default:
		return "", fmt.Errorf("unknown finish marker %q", marker)
	}
}

// forEachDataLine walks content line by line, skipping blanks and
// #-comments, calling fn with the 1-based line number of each data line.
func forEachDataLine(content []byte, fn func(lineNumber int, line string)) {
	for i, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fn(i+1, trimmed)
	}
}
