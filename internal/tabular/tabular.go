// Package tabular is the flat-file boundary: it reads and writes the two row
// shapes as CSV or XLSX (by output extension) and owns all currency string
// rendering. Engine packages never see formatted prices.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Markers written in place of a price for flagged rows. Distinguishable by
// design: a missing price is never rendered as $0.00.
const (
	MarkerNotFound    = "Not Found"
	MarkerNoPriceData = "No Price Data"
	MarkerFetchError  = "Fetch Error"
	MarkerMultiple    = "Multiple"
	MarkerBlank       = ""
)

// Money renders a decimal as a fixed-point dollar string, or blank for nil.
func Money(d *decimal.Decimal) string {
	if d == nil {
		return MarkerBlank
	}
	return "$" + d.StringFixed(2)
}

// ParseMoney parses a "$12.34"-style cell back to a decimal. Blank cells and
// the known markers return nil, distinct from zero.
func ParseMoney(cell string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(cell)
	switch s {
	case MarkerBlank, "N/A", MarkerNotFound, MarkerNoPriceData, MarkerFetchError:
		return nil, nil
	}
	s = strings.TrimPrefix(s, "$")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", cell, err)
	}
	return &d, nil
}

// Table is an in-memory rendered table ready for output.
type Table struct {
	Header []string
	Rows   [][]string
}

// Write writes the table to path, choosing the backend by extension:
// .xlsx via excelize, anything else as CSV.
func (t *Table) Write(path string) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return t.writeXLSX(path)
	}
	return t.writeCSV(path)
}

func (t *Table) writeCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (t *Table) writeXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	write := func(rowIdx int, cells []string) error {
		ref, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(cells))
		for i, c := range cells {
			values[i] = c
		}
		return f.SetSheetRow(sheet, ref, &values)
	}

	if err := write(1, t.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range t.Rows {
		if err := write(i+2, row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	return f.SaveAs(path)
}

// readTable reads path into header and rows, choosing the backend by
// extension like Write.
func readTable(path string) ([]string, [][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}
	return readCSV(path)
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

func readXLSX(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	return rows[0], rows[1:], nil
}
