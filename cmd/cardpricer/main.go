package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kosarica/cardpricer/config"
	"github.com/kosarica/cardpricer/internal/catalog"
	"github.com/kosarica/cardpricer/internal/scryfall"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cardpricer",
	Short: "Card pricing CLI - trading card price lookup and inventory tool",
	Long: `A CLI tool for pricing trading card lists, generating full-set inventory
templates, valuing filled inventories, and building buylists with price,
finish, and rarity filters. Card lists are accepted in pipe-delimited text,
deck-export text, and generic or vendor CSV formats, auto-detected per file.`,
	PersistentPreRunE: persistentPreRun,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}
	logger = initLogger()
	return nil
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Console format by default; logs go to stderr so output piping stays clean.
	var output io.Writer
	if cfg != nil && cfg.Logging.Format == "json" {
		output = os.Stderr
	} else {
		noColor := false
		if cfg != nil {
			noColor = cfg.Logging.NoColor
		}
		output = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}
	}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

// newCatalog builds the Scryfall-backed catalog with per-run set caching.
func newCatalog() catalog.Catalog {
	opts := scryfall.DefaultOptions()
	if cfg != nil {
		opts.BaseURL = cfg.Catalog.BaseURL
		opts.RequestDelay = cfg.Catalog.RequestDelay
		opts.MaxRetries = cfg.Catalog.MaxRetries
		opts.InitialBackoff = cfg.Catalog.InitialBackoff
		opts.MaxBackoff = cfg.Catalog.MaxBackoff
	}
	if logger != nil {
		opts.Logger = *logger
	}
	return catalog.NewSetCache(scryfall.NewClient(opts))
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
