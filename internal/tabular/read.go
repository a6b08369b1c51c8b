package tabular

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kosarica/cardpricer/internal/card"
	"github.com/kosarica/cardpricer/internal/inventory"
)

// RowProblem records one inventory row that could not be ingested. Problems
// are collected and reported together; they do not abort the file.
type RowProblem struct {
	RowNumber int
	Reason    string
}

func (p RowProblem) Error() string {
	return fmt.Sprintf("row %d: %s", p.RowNumber, p.Reason)
}

// Inventory file columns, matched against lowercased header names.
var inventoryHeaders = map[string]string{
	"card_name":        "name",
	"card name":        "name",
	"name":             "name",
	"set":              "set",
	"set_code":         "set",
	"collector_number": "number",
	"collector number": "number",
	"rarity":           "rarity",
	"finish":           "finish",
	"unit_price":       "unit_price",
	"unit price":       "unit_price",
	"quantity":         "quantity",
}

// ReadInventory re-ingests a filled inventory file (CSV or XLSX) written by
// the template builder. Blank quantities count as zero. A row with an
// unparsable quantity or price becomes a RowProblem; the rest of the file
// still loads.
func ReadInventory(path string) ([]inventory.Row, []RowProblem, error) {
	header, records, err := readTable(path)
	if err != nil {
		return nil, nil, err
	}

	fields := make(map[string]int)
	for i, h := range header {
		if logical, ok := inventoryHeaders[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, seen := fields[logical]; !seen {
				fields[logical] = i
			}
		}
	}
	for _, required := range []string{"name", "set", "number", "finish"} {
		if _, ok := fields[required]; !ok {
			return nil, nil, fmt.Errorf("%s: missing required column %q", path, required)
		}
	}

	var rows []inventory.Row
	var problems []RowProblem

	for i, record := range records {
		rowNumber := i + 2 // 1-based, after header

		get := func(logical string) string {
			idx, ok := fields[logical]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		if isBlankRecord(record) {
			continue
		}

		finish, err := card.ParseFinish(get("finish"))
		if err != nil {
			problems = append(problems, RowProblem{RowNumber: rowNumber, Reason: err.Error()})
			continue
		}

		quantity := 0
		if q := get("quantity"); q != "" {
			quantity, err = strconv.Atoi(q)
			if err != nil || quantity < 0 {
				problems = append(problems, RowProblem{RowNumber: rowNumber, Reason: fmt.Sprintf("invalid quantity %q", q)})
				continue
			}
		}

		unitPrice, err := ParseMoney(get("unit_price"))
		if err != nil {
			problems = append(problems, RowProblem{RowNumber: rowNumber, Reason: err.Error()})
			continue
		}

		rows = append(rows, inventory.Row{
			CardName:        get("name"),
			SetCode:         strings.ToUpper(get("set")),
			CollectorNumber: get("number"),
			Rarity:          card.Rarity(strings.ToLower(get("rarity"))),
			Finish:          finish,
			UnitPrice:       unitPrice,
			Quantity:        quantity,
		})
	}

	return rows, problems, nil
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
