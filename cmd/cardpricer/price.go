package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kosarica/cardpricer/internal/cardlist"
	"github.com/kosarica/cardpricer/internal/pricing"
	"github.com/kosarica/cardpricer/internal/resolver"
	"github.com/kosarica/cardpricer/internal/tabular"
)

var (
	priceOutput string
	priceSet    string
)

// priceCmd represents the price command
var priceCmd = &cobra.Command{
	Use:   "price <input>",
	Short: "Price a card list",
	Long: `Price every card in a list file. The input format is auto-detected once per
file: pipe-delimited text, Archidekt/Moxfield deck-export text, a generic CSV
(Quantity,Name,SetCode,CollectorNumber,Finish), or a vendor CSV with named
headers. Lines starting with # and blank lines are skipped.

Each line yields one output row. Cards without a set and collector number are
summarized as a min/max price range across printings; when no finish is given
only nonfoil prices are considered. Unparsable lines and not-found cards are
flagged in place, never dropped.`,
	Example: `  cardpricer price cards.txt -o prices.csv
  cardpricer price deck_export.txt -o prices.xlsx
  cardpricer price cards.txt -o prices.csv --set MH3`,
	Args: cobra.ExactArgs(1),
	RunE: runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)

	priceCmd.Flags().StringVarP(&priceOutput, "output", "o", "", "Output file, .csv or .xlsx (required)")
	priceCmd.Flags().StringVar(&priceSet, "set", "", "Restrict all lookups to one set code")
	priceCmd.MarkFlagRequired("output")
}

func runPrice(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	content, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	parsed := cardlist.Parse(content)
	logger.Info().
		Str("dialect", string(parsed.Dialect)).
		Int("requests", len(parsed.Requests)).
		Int("failures", len(parsed.Failures)).
		Msg("Parsed card list")

	if parsed.TotalLines() == 0 {
		return fmt.Errorf("no cards found in %s", inputPath)
	}

	res := resolver.New(newCatalog(), priceSet)
	ctx := cmd.Context()

	summaries := make([]pricing.Summary, 0, len(parsed.Requests))
	for i, req := range parsed.Requests {
		logger.Info().
			Int("current", i+1).
			Int("total", len(parsed.Requests)).
			Str("card", req.Name).
			Msg("Processing")

		result, err := res.Resolve(ctx, req)
		if err != nil {
			summaries = append(summaries, pricing.SummaryForError(req, err))
			continue
		}
		summaries = append(summaries, pricing.Aggregate(result))
	}

	if err := tabular.SummariesTable(summaries).Write(priceOutput); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	printPriceSummary(summaries, parsed.Failures, priceOutput)
	return nil
}

func printPriceSummary(summaries []pricing.Summary, failures []cardlist.Failure, output string) {
	counts := make(map[pricing.Status]int)
	for _, s := range summaries {
		counts[s.Status]++
	}

	fmt.Printf("\nPricing Results\n")
	fmt.Println(strings.Repeat("-", 60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Metric\tValue\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Cards Priced\t%d\n", counts[pricing.StatusOK])
	fmt.Fprintf(w, "Not Found\t%d\n", counts[pricing.StatusNotFound])
	fmt.Fprintf(w, "Not Found in Finish\t%d\n", counts[pricing.StatusFinishUnavailable])
	fmt.Fprintf(w, "No Price Data\t%d\n", counts[pricing.StatusNoPriceData])
	fmt.Fprintf(w, "Fetch Errors\t%d\n", counts[pricing.StatusFetchError])
	fmt.Fprintf(w, "Unparsable Lines\t%d\n", len(failures))
	w.Flush()

	if len(failures) > 0 {
		fmt.Printf("\nUnparsable lines:\n")
		for _, f := range failures {
			fmt.Printf("  line %d: %s (%s)\n", f.LineNumber, f.Reason, f.Line)
		}
	}

	fmt.Printf("\nResults written to %s\n", output)
}
