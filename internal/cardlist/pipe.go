package cardlist

import (
	"fmt"
	"strings"

	"github.com/kosarica/cardpricer/internal/card"
)

// parsePipe parses the pipe-delimited dialect: Name[|SET[|Number[|Finish]]].
// Trailing fields may be left empty ("Name||123" is a failure because a
// collector number is meaningless without a set).
func parsePipe(content []byte, result *Result) {
	forEachDataLine(content, func(lineNumber int, line string) {
		req, err := parsePipeLine(line)
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

func parsePipeLine(line string) (card.Request, error) {
	parts := strings.Split(line, "|")
	if len(parts) > 4 {
		return card.Request{}, fmt.Errorf("expected at most 4 pipe-delimited fields, got %d", len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	req := card.Request{Name: parts[0], Quantity: 1}

	if len(parts) > 1 {
		code, err := normalizeSetCode(parts[1])
		if err != nil {
			return card.Request{}, err
		}
		req.SetCode = code
	}
	if len(parts) > 2 {
		req.CollectorNumber = parts[2]
	}
	if len(parts) > 3 && parts[3] != "" {
		finish, err := card.ParseFinish(parts[3])
		if err != nil {
			return card.Request{}, err
		}
		req.Finish = finish
	}

	if err := req.Validate(); err != nil {
		return card.Request{}, err
	}
	return req, nil
}
