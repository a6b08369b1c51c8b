package cardlist

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kosarica/cardpricer/internal/card"
)

func newCSVReader(content []byte) *csv.Reader {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.Comment = '#'
	r.TrimLeadingSpace = true
	return r
}

// parseGenericCSV parses a headered CSV with ordered columns
// Quantity,Name,SetCode,CollectorNumber,Finish. Trailing columns are
// optional; the header row is positional and skipped.
func parseGenericCSV(content []byte, result *Result) {
	r := newCSVReader(content)
	rowNumber := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			return
		}
		rowNumber++
		if err != nil {
			result.Failures = append(result.Failures, Failure{
				LineNumber: rowNumber,
				Line:       strings.Join(record, ","),
				Reason:     fmt.Sprintf("malformed CSV row: %v", err),
			})
			continue
		}
		if rowNumber == 1 {
			continue // header
		}

		req, err := genericCSVRequest(record)
		if err != nil {
			result.Failures = append(result.Failures, Failure{
				LineNumber: rowNumber,
				Line:       strings.Join(record, ","),
				Reason:     err.Error(),
			})
			continue
		}
		result.Requests = append(result.Requests, req)
	}
}

func genericCSVRequest(record []string) (card.Request, error) {
	if len(record) < 2 {
		return card.Request{}, fmt.Errorf("expected at least 2 columns, got %d", len(record))
	}
	if len(record) > 5 {
		return card.Request{}, fmt.Errorf("expected at most 5 columns, got %d", len(record))
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return card.Request{}, fmt.Errorf("invalid quantity %q", record[0])
	}

	req := card.Request{
		Name:     strings.TrimSpace(record[1]),
		Quantity: quantity,
	}
	if len(record) > 2 {
		code, err := normalizeSetCode(record[2])
		if err != nil {
			return card.Request{}, err
		}
		req.SetCode = code
	}
	if len(record) > 3 {
		req.CollectorNumber = strings.TrimSpace(record[3])
	}
	if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
		finish, err := card.ParseFinish(record[4])
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

// Logical fields of the vendor CSV dialect, matched against lowercased
// header names. Archidekt and Moxfield exports both map onto these.
var namedCSVHeaders = map[string]string{
	"count":            "quantity",
	"quantity":         "quantity",
	"tradelist count":  "quantity",
	"name":             "name",
	"card name":        "name",
	"edition":          "set",
	"set":              "set",
	"set code":         "set",
	"collector number": "number",
	"number":           "number",
	"foil":             "finish",
	"finish":           "finish",
}

// parseNamedCSV parses a vendor CSV export by mapping its named headers,
// case-insensitively, onto the five logical fields.
func parseNamedCSV(content []byte, result *Result) {
	r := newCSVReader(content)

	header, err := r.Read()
	if err != nil {
		result.Failures = append(result.Failures, Failure{
			LineNumber: 1,
			Reason:     fmt.Sprintf("unreadable CSV header: %v", err),
		})
		return
	}

	fields := make(map[string]int)
	for i, h := range header {
		if logical, ok := namedCSVHeaders[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, seen := fields[logical]; !seen {
				fields[logical] = i
			}
		}
	}
	if _, ok := fields["name"]; !ok {
		result.Failures = append(result.Failures, Failure{
			LineNumber: 1,
			Line:       strings.Join(header, ","),
			Reason:     "no recognizable name column in CSV header",
		})
		return
	}

	rowNumber := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			return
		}
		rowNumber++
		if err != nil {
			result.Failures = append(result.Failures, Failure{
				LineNumber: rowNumber,
				Line:       strings.Join(record, ","),
				Reason:     fmt.Sprintf("malformed CSV row: %v", err),
			})
			continue
		}

		req, err := namedCSVRequest(record, fields)
		if err != nil {
			result.Failures = append(result.Failures, Failure{
				LineNumber: rowNumber,
				Line:       strings.Join(record, ","),
				Reason:     err.Error(),
			})
			continue
		}
		result.Requests = append(result.Requests, req)
	}
}

func namedCSVRequest(record []string, fields map[string]int) (card.Request, error) {
	get := func(logical string) string {
		i, ok := fields[logical]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	req := card.Request{Name: get("name"), Quantity: 1}

	if qty := get("quantity"); qty != "" {
		n, err := strconv.Atoi(qty)
		if err != nil {
			return card.Request{}, fmt.Errorf("invalid quantity %q", qty)
		}
		req.Quantity = n
	}

	code, err := normalizeSetCode(get("set"))
	if err != nil {
		return card.Request{}, err
	}
	req.SetCode = code
	req.CollectorNumber = get("number")

	req.Finish = foilColumnFinish(get("finish"))

	if err := req.Validate(); err != nil {
		return card.Request{}, err
	}
	return req, nil
}

// foilColumnFinish interprets a vendor foil column: empty means unspecified,
// "no"-like values mean explicit nonfoil, "etched" is etched, and any other
// truthy token means foil.
func foilColumnFinish(value string) card.Finish {
	switch strings.ToLower(value) {
	case "":
		return ""
	case "no", "false", "0", "nonfoil", "non-foil":
		return card.FinishNonfoil
	case "etched":
		return card.FinishEtched
	default:
		return card.FinishFoil
	}
}
