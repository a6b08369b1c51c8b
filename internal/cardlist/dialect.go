package cardlist

import (
	"regexp"
	"strings"
)

// Dialect identifies the structural format of a whole card list input.
// Detection runs once per input; every line is then parsed with that
// dialect's grammar, never with per-line fallback chains.
type Dialect string

const (
	// DialectPipe is the pipe-delimited format: Name[|SET[|Number[|Finish]]].
	DialectPipe Dialect = "pipe"
	// DialectDeckText is the Archidekt/Moxfield text export:
	// "<qty> <Name> (<SET>) <Number> [*F*|*E*]".
	DialectDeckText Dialect = "deck-text"
	// DialectGenericCSV is a headered CSV with ordered columns
	// Quantity,Name,SetCode,CollectorNumber,Finish.
	DialectGenericCSV Dialect = "generic-csv"
	// DialectNamedCSV is a vendor CSV (Archidekt/Moxfield export) with named
	// headers mapped case-insensitively to the same logical fields.
	DialectNamedCSV Dialect = "named-csv"
)

var deckTextProbe = regexp.MustCompile(`^\d+x?\s+.+\([A-Za-z0-9]{3,5}\)`)

var genericCSVQuantityHeaders = map[string]bool{
	"count":    true,
	"quantity": true,
	"qty":      true,
	"amount":   true,
}

// DetectDialect classifies an input by structural probes on its first
// non-empty, non-comment line: vendor headers, then a leading quantity
// header cell, then the deck-export parenthesis pattern, with pipe as the
// fallback (a bare card name per line is valid pipe input).
func DetectDialect(content []byte) Dialect {
	line := firstDataLine(content)
	if line == "" {
		return DialectPipe
	}

	if strings.Contains(line, ",") {
		lower := strings.ToLower(line)
		// Vendor headers need two signature columns together; a lone
		// "edition" may just be part of a card name.
		archidekt := strings.Contains(lower, "card name") && strings.Contains(lower, "edition")
		moxfield := strings.Contains(lower, "tradelist count") && strings.Contains(lower, "collector number")
		if archidekt || moxfield {
			return DialectNamedCSV
		}
		first := strings.TrimSpace(strings.SplitN(lower, ",", 2)[0])
		if genericCSVQuantityHeaders[strings.Trim(first, `"`)] {
			return DialectGenericCSV
		}
	}

	if deckTextProbe.MatchString(line) {
		return DialectDeckText
	}

	return DialectPipe
}

// firstDataLine returns the first line that is neither blank nor a comment.
func firstDataLine(content []byte) string {
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return trimmed
	}
	return ""
}
