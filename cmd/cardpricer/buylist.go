package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/kosarica/cardpricer/internal/card"
	"github.com/kosarica/cardpricer/internal/inventory"
	"github.com/kosarica/cardpricer/internal/tabular"
)

var (
	buylistSets      []string
	buylistOwned     string
	buylistOutput    string
	buylistInclude   []string
	buylistExclude   []string
	buylistMaxPrice  string
	buylistMinPrice  string
	buylistMinCommon string
	buylistMinUncom  string
	buylistMinRare   string
	buylistMinMythic string
	buylistCopies    int
)

// buylistCmd represents the buylist command
var buylistCmd = &cobra.Command{
	Use:   "buylist",
	Short: "Build a buylist of missing printings for the requested sets",
	Long: `Compare an owned-inventory file against every printing/finish of the
requested sets and emit the missing copies, filtered by finish and price.
Rarity-tiered minimum prices override the general minimum per rarity; card
prices below the effective minimum are floored to it, and rows above the
maximum price are dropped.

--include-finishes and --exclude-finishes are mutually exclusive; supplying
both aborts before anything is fetched.`,
	Example: `  cardpricer buylist --sets MH3 -i owned.csv -o buylist.csv
  cardpricer buylist --sets MH3 -o buylist.csv --include-finishes foil,etched
  cardpricer buylist --sets MH3 -o buylist.csv --max-price 10 --min-common 0.10`,
	RunE: runBuylist,
}

func init() {
	rootCmd.AddCommand(buylistCmd)

	buylistCmd.Flags().StringSliceVar(&buylistSets, "sets", nil, "Set codes to cover (required)")
	buylistCmd.Flags().StringVarP(&buylistOwned, "input", "i", "", "Owned-inventory file (filled template); omit to treat everything as unowned")
	buylistCmd.Flags().StringVarP(&buylistOutput, "output", "o", "", "Output file, .csv or .xlsx (required)")
	buylistCmd.Flags().StringSliceVar(&buylistInclude, "include-finishes", nil, "Only these finishes (nonfoil, foil, etched)")
	buylistCmd.Flags().StringSliceVar(&buylistExclude, "exclude-finishes", nil, "Skip these finishes")
	buylistCmd.Flags().StringVar(&buylistMaxPrice, "max-price", "", "Drop rows with an effective price above this")
	buylistCmd.Flags().StringVar(&buylistMinPrice, "min-price", "", "General minimum price floor")
	buylistCmd.Flags().StringVar(&buylistMinCommon, "min-common", "", "Minimum price floor for commons")
	buylistCmd.Flags().StringVar(&buylistMinUncom, "min-uncommon", "", "Minimum price floor for uncommons")
	buylistCmd.Flags().StringVar(&buylistMinRare, "min-rare", "", "Minimum price floor for rares")
	buylistCmd.Flags().StringVar(&buylistMinMythic, "min-mythic", "", "Minimum price floor for mythics")
	buylistCmd.Flags().IntVar(&buylistCopies, "copies", 0, "Copies wanted per printing/finish (default from config, 1)")
	buylistCmd.MarkFlagRequired("sets")
	buylistCmd.MarkFlagRequired("output")
}

func runBuylist(cmd *cobra.Command, args []string) error {
	filter, err := buildFilter()
	if err != nil {
		return err
	}

	copies := buylistCopies
	if copies == 0 && cfg != nil {
		copies = cfg.Buylist.CopiesPerFinish
	}
	if copies == 0 {
		copies = 1
	}

	var owned []inventory.Row
	if buylistOwned != "" {
		var problems []tabular.RowProblem
		owned, problems, err = tabular.ReadInventory(buylistOwned)
		if err != nil {
			return fmt.Errorf("failed to read owned inventory: %w", err)
		}
		for _, p := range problems {
			logger.Warn().Int("row", p.RowNumber).Str("reason", p.Reason).Msg("Skipped owned row")
		}
	}

	sets := upperSets(buylistSets)
	logger.Info().Strs("sets", sets).Int("copies", copies).Msg("Building buylist")

	rows, stats, setErrs, err := inventory.BuildBuylist(cmd.Context(), newCatalog(), sets, owned, filter, copies)
	if err != nil {
		var confErr *inventory.ConfigError
		if errors.As(err, &confErr) {
			return fmt.Errorf("configuration error: %s", confErr.Msg)
		}
		return err
	}
	for _, se := range setErrs {
		logger.Error().Str("set", se.SetCode).Err(se.Err).Msg("Set could not be fetched")
	}

	if err := tabular.BuylistTable(rows).Write(buylistOutput); err != nil {
		return fmt.Errorf("failed to write buylist: %w", err)
	}

	printBuylistSummary(stats, buylistOutput)
	return nil
}

// buildFilter translates flags to the buylist filter. Bad tokens are
// configuration errors and abort before any catalog access.
func buildFilter() (inventory.Filter, error) {
	var filter inventory.Filter
	var err error

	if filter.IncludedFinishes, err = parseFinishList(buylistInclude); err != nil {
		return filter, fmt.Errorf("configuration error: %w", err)
	}
	if filter.ExcludedFinishes, err = parseFinishList(buylistExclude); err != nil {
		return filter, fmt.Errorf("configuration error: %w", err)
	}
	if err = filter.Validate(); err != nil {
		return filter, fmt.Errorf("configuration error: %w", err)
	}

	if filter.MaxPrice, err = parsePriceFlag("max-price", buylistMaxPrice); err != nil {
		return filter, err
	}
	if filter.MinPrice, err = parsePriceFlag("min-price", buylistMinPrice); err != nil {
		return filter, err
	}

	floors := map[card.Rarity]string{
		card.RarityCommon:   buylistMinCommon,
		card.RarityUncommon: buylistMinUncom,
		card.RarityRare:     buylistMinRare,
		card.RarityMythic:   buylistMinMythic,
	}
	filter.MinPriceByRarity = make(map[card.Rarity]decimal.Decimal)
	for rarity, raw := range floors {
		if raw == "" {
			continue
		}
		floor, err := parsePriceFlag("min-"+string(rarity), raw)
		if err != nil {
			return filter, err
		}
		filter.MinPriceByRarity[rarity] = *floor
	}

	return filter, nil
}

func parseFinishList(tokens []string) ([]card.Finish, error) {
	var finishes []card.Finish
	for _, t := range tokens {
		f, err := card.ParseFinish(t)
		if err != nil {
			return nil, err
		}
		finishes = append(finishes, f)
	}
	return finishes, nil
}

func parsePriceFlag(name, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if err != nil {
		return nil, fmt.Errorf("configuration error: invalid --%s value %q", name, raw)
	}
	return &d, nil
}

func printBuylistSummary(stats inventory.Stats, output string) {
	fmt.Printf("\nBuylist Summary\n")
	fmt.Println(strings.Repeat("-", 60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Metric\tValue\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Rows Needed\t%d\n", stats.Rows)
	fmt.Fprintf(w, "Copies Needed\t%d\n", stats.TotalNeeded)
	fmt.Fprintf(w, "Estimated Cost\t$%s\n", stats.EstimatedCost.StringFixed(2))
	fmt.Fprintf(w, "Copies Without Price\t%d\n", stats.UnpricedNeeded)
	w.Flush()

	fmt.Printf("\nNeeded by rarity:\n")
	for _, rarity := range card.AllRarities {
		if n := stats.NeededByRarity[rarity]; n > 0 {
			fmt.Printf("  %-10s %d\n", rarity, n)
		}
	}

	fmt.Printf("\nBuylist written to %s\n", output)
}
