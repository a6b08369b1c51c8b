package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kosarica/cardpricer/internal/inventory"
	"github.com/kosarica/cardpricer/internal/tabular"
)

var valueOutput string

// valueCmd represents the value command
var valueCmd = &cobra.Command{
	Use:   "value <inventory>",
	Short: "Calculate total value of a filled inventory file",
	Long: `Calculate per-row and total value from an inventory file produced by the
inventory command and filled in by hand. Rows keep their template prices;
unpriced rows contribute zero and are flagged in the output. No catalog
access happens in this mode.`,
	Example: `  cardpricer value filled_template.csv -o inventory_value.csv
  cardpricer value filled_template.xlsx -o inventory_value.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runValue,
}

func init() {
	rootCmd.AddCommand(valueCmd)

	valueCmd.Flags().StringVarP(&valueOutput, "output", "o", "", "Output file, .csv or .xlsx (required)")
	valueCmd.MarkFlagRequired("output")
}

func runValue(cmd *cobra.Command, args []string) error {
	rows, problems, err := tabular.ReadInventory(args[0])
	if err != nil {
		return fmt.Errorf("failed to read inventory: %w", err)
	}
	for _, p := range problems {
		logger.Warn().Int("row", p.RowNumber).Str("reason", p.Reason).Msg("Skipped inventory row")
	}

	priced, grandTotal := inventory.Calculate(rows)

	if err := tabular.ValuationTable(priced).Write(valueOutput); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	unpriced := 0
	for _, r := range priced {
		if r.UnitPrice == nil && r.Quantity > 0 {
			unpriced++
		}
	}

	fmt.Printf("\nInventory Value\n")
	fmt.Println(strings.Repeat("-", 60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Metric\tValue\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Total Cards\t%d\n", inventory.TotalQuantity(priced))
	fmt.Fprintf(w, "Total Value\t$%s\n", grandTotal.StringFixed(2))
	fmt.Fprintf(w, "Rows Without Price\t%d\n", unpriced)
	fmt.Fprintf(w, "Rows Skipped\t%d\n", len(problems))
	w.Flush()

	fmt.Printf("\nResults written to %s\n", valueOutput)
	return nil
}
