package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kosarica/cardpricer/internal/inventory"
	"github.com/kosarica/cardpricer/internal/tabular"
)

var (
	inventorySets   []string
	inventoryOutput string
)

// inventoryCmd represents the inventory command
var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Generate a pre-priced inventory template for whole sets",
	Long: `Generate an inventory template covering every printing of the requested
sets, one row per finish the printing supports, with current prices filled in
and an empty quantity column. Fill in quantities by hand and run the value
command on the result.`,
	Example: `  cardpricer inventory --sets MH3 -o template.csv
  cardpricer inventory --sets MH3,OTJ -o template.xlsx`,
	RunE: runInventory,
}

func init() {
	rootCmd.AddCommand(inventoryCmd)

	inventoryCmd.Flags().StringSliceVar(&inventorySets, "sets", nil, "Set codes to cover (required)")
	inventoryCmd.Flags().StringVarP(&inventoryOutput, "output", "o", "", "Output file, .csv or .xlsx (required)")
	inventoryCmd.MarkFlagRequired("sets")
	inventoryCmd.MarkFlagRequired("output")
}

func runInventory(cmd *cobra.Command, args []string) error {
	sets := upperSets(inventorySets)

	logger.Info().Strs("sets", sets).Msg("Fetching set printings")
	rows, setErrs := inventory.BuildTemplate(cmd.Context(), newCatalog(), sets)

	for _, se := range setErrs {
		logger.Error().Str("set", se.SetCode).Err(se.Err).Msg("Set could not be fetched")
	}
	if len(rows) == 0 {
		return fmt.Errorf("no printings found for sets %s", strings.Join(sets, ", "))
	}

	if err := tabular.TemplateTable(rows).Write(inventoryOutput); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}

	fmt.Printf("\nInventory template written to %s\n", inventoryOutput)
	fmt.Printf("Total printing/finish rows: %d\n", len(rows))
	if len(setErrs) > 0 {
		fmt.Printf("Sets skipped due to errors: %d\n", len(setErrs))
	}
	fmt.Println("Fill in the quantity column, then run the value command.")
	return nil
}

func upperSets(sets []string) []string {
	out := make([]string, 0, len(sets))
	for _, s := range sets {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
