package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"divicards/internal/ninja"
	"divicards/internal/pricing"
	"divicards/internal/stashapi"
	"divicards/internal/storage"
	"divicards/pkg/config"
	"divicards/pkg/logger"
)

var (
	configPath string
	debug      bool
	logToFile  bool

	log *logger.Logger
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "divicards",
	Short: "Path of Exile stash pricing and divination card samples",
	Long: `divicards loads your Path of Exile stash tabs through the trade API,
groups their items per category, prices them with poe.ninja and records
divination card samples.

An OAuth access token with the account:stashes scope is required; set it in
the config file or as DIVICARDS_ACCESS_TOKEN.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := zerolog.InfoLevel
		if debug {
			logLevel = zerolog.DebugLevel
		}

		opts := []logger.Option{logger.WithConsole(), logger.WithLevel(logLevel)}
		if logToFile {
			opts = append(opts, logger.WithDefaultFile())
		}
		var err error
		log, err = logger.NewLogger(opts...)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		log.Debug("Starting divicards",
			"command", cmd.Name(),
			"pid", os.Getpid(),
			"os", runtime.GOOS,
			"arch", runtime.GOARCH,
			"debug", debug)

		cfg, err = config.FindConfig(configPath, log)
		if err != nil {
			log.Error("Failed to load configuration", err, "provided_path", configPath)
			return err
		}
		log.Debug("Configuration loaded",
			"api_url", cfg.APIURL(),
			"reference_league", cfg.ReferenceLeague(),
			"db_path", cfg.DBPath())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Close()
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logToFile, "log-file", false, "also log to ~/.local/share/divicards/logs")

	rootCmd.AddCommand(tabsCmd)
	rootCmd.AddCommand(tabCmd)
	rootCmd.AddCommand(pricesCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(samplesCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newPrices builds the poe.ninja client used for every category.
func newPrices() *ninja.Client {
	return ninja.New(
		ninja.WithBaseURL(cfg.PricesURL()),
		ninja.WithUserAgent(stashapi.UserAgent(cfg.AppName(), cfg.AppVersion(), cfg.ContactEmail())),
		ninja.WithLogger(log))
}

func newLoader() *stashapi.Loader {
	return stashapi.NewLoader(cfg.AppName(), cfg.AppVersion(), cfg.ContactEmail(), cfg.AccessToken(),
		stashapi.WithAPIURL(cfg.APIURL()),
		stashapi.WithLogger(log),
		stashapi.WithPrices(newPrices()))
}

func newFetcher(lookup pricing.PriceLookup) *pricing.Fetcher {
	return pricing.NewFetcher(pricing.LookupSource{Lookup: lookup},
		pricing.WithReferenceLeague(cfg.ReferenceLeague()),
		pricing.WithFetcherLogger(log))
}

func openStore() (*storage.DB, error) {
	db, err := storage.New(cfg.DBPath(), log)
	if err != nil {
		log.Error("Failed to open sample database", err, "path", cfg.DBPath())
		return nil, err
	}
	return db, nil
}

// league resolves the --league flag against the configured default.
func league(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if l := cfg.DefaultLeague(); l != "" {
		return l, nil
	}
	return "", fmt.Errorf("no league given; pass --league or set default_league")
}
