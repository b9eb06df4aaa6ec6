package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"

	"divicards/internal/export"
	"divicards/internal/grouping"
	"divicards/internal/pricing"
	"divicards/internal/sample"
	"divicards/internal/server"
	"divicards/internal/stash"
)

var (
	leagueFlag string

	tabID       string
	subtabID    string
	tabCategory string
	sortColumn  string
	sortDesc    bool
	page        int
	perPage     int

	priceCategory string
	top           int

	sampleTabs []string
	outFile    string
	toSheets   bool
	sheetTitle string

	cleanupAge time.Duration
	deleteID   string

	listenAddr string
)

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "List stash tabs of a league",
	RunE:  runTabs,
}

var tabCmd = &cobra.Command{
	Use:   "tab",
	Short: "Show the priced items of one tab",
	Long: `Groups the items of one stash tab for a category, prices every group
and prints one page of rows sorted by the chosen column.

Example:
  divicards tab --league Settlers --id 1a2b3c --category essence --sort price --desc`,
	RunE: runTab,
}

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Load price tables",
	Long: `Loads the price table of one category, or of every category at once
with --category all. A league without prices falls back to the reference
league.`,
	RunE: runPrices,
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Record a divination card sample from selected tabs",
	RunE:  runSample,
}

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List, delete or clean up stored samples",
	RunE:  runSamples,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE:  runServe,
}

func init() {
	for _, cmd := range []*cobra.Command{tabsCmd, tabCmd, pricesCmd, sampleCmd, serveCmd} {
		cmd.Flags().StringVar(&leagueFlag, "league", "", "league name (default: default_league from config)")
	}

	tabCmd.Flags().StringVar(&tabID, "id", "", "tab id (required)")
	tabCmd.Flags().StringVar(&subtabID, "subtab", "", "subtab id of a folder or special tab")
	tabCmd.Flags().StringVar(&tabCategory, "category", string(grouping.DivinationCard), "item category")
	tabCmd.Flags().StringVar(&sortColumn, "sort", string(pricing.ColumnTotal), "sort column")
	tabCmd.Flags().BoolVar(&sortDesc, "desc", false, "sort descending (default when --sort is not given)")
	tabCmd.Flags().IntVar(&page, "page", 1, "page number")
	tabCmd.Flags().IntVar(&perPage, "per-page", 25, "rows per page")
	tabCmd.MarkFlagRequired("id")

	pricesCmd.Flags().StringVar(&priceCategory, "category", "all", "item category or all")
	pricesCmd.Flags().IntVar(&top, "top", 20, "rows to print for a single category")

	sampleCmd.Flags().StringSliceVar(&sampleTabs, "tabs", nil, "comma separated tab ids (required)")
	sampleCmd.Flags().StringVar(&outFile, "out", "", "write the sample as CSV to this file, - for stdout")
	sampleCmd.Flags().BoolVar(&toSheets, "sheets", false, "export the sample to a new Google spreadsheet")
	sampleCmd.Flags().StringVar(&sheetTitle, "title", "", "spreadsheet title")
	sampleCmd.MarkFlagRequired("tabs")

	samplesCmd.Flags().DurationVar(&cleanupAge, "cleanup", 0, "delete samples older than this age")
	samplesCmd.Flags().StringVar(&deleteID, "delete", "", "delete the sample with this id")

	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (default: listen_addr from config)")
}

func runTabs(cmd *cobra.Command, args []string) error {
	lg, err := league(leagueFlag)
	if err != nil {
		return err
	}

	tabs, err := newLoader().Tabs(cmd.Context(), lg)
	if err != nil {
		log.Error("Failed to load stash tabs", err, "league", lg)
		return err
	}
	printTabs(cmd.OutOrStdout(), tabs)
	return nil
}

func runTab(cmd *cobra.Command, args []string) error {
	lg, err := league(leagueFlag)
	if err != nil {
		return err
	}
	c, err := grouping.ParseCategory(tabCategory)
	if err != nil {
		return err
	}
	col, err := pricing.ParseColumn(sortColumn)
	if err != nil {
		return err
	}
	dir := pricing.Asc
	if sortDesc || !cmd.Flags().Changed("sort") {
		dir = pricing.Desc
	}
	if perPage < 1 {
		return fmt.Errorf("--per-page must be at least 1")
	}

	loader := newLoader()
	tab, err := loader.Tab(cmd.Context(), lg, tabID, subtabID)
	if err != nil {
		log.Error("Failed to load stash tab", err, "league", lg, "tab_id", tabID)
		return err
	}

	res := newFetcher(loader).Fetch(cmd.Context(), c, lg)
	rows := pricing.Annotate(grouping.GroupItems(c, tab.Items), res.Prices)
	pricing.SortRows(rows, col, dir)

	printRows(cmd.OutOrStdout(), c, pricing.PageOf(rows, page, perPage), pricing.Sum(rows), res)
	return nil
}

func runPrices(cmd *cobra.Command, args []string) error {
	lg, err := league(leagueFlag)
	if err != nil {
		return err
	}
	fetcher := newFetcher(newPrices())

	if priceCategory != "all" {
		c, err := grouping.ParseCategory(priceCategory)
		if err != nil {
			return err
		}
		printPriceTable(cmd.OutOrStdout(), fetcher.Fetch(cmd.Context(), c, lg), top)
		return nil
	}

	results := make([]pricing.Result, len(grouping.Categories))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(4)
	for i, c := range grouping.Categories {
		g.Go(func() error {
			results[i] = fetcher.Fetch(ctx, c, lg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printPriceSummary(cmd.OutOrStdout(), results)
	return nil
}

func runSample(cmd *cobra.Command, args []string) error {
	lg, err := league(leagueFlag)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	loader := newLoader()

	tabs, err := loader.Tabs(ctx, lg)
	if err != nil {
		log.Error("Failed to load stash tabs", err, "league", lg)
		return err
	}
	sel, err := stash.SelectIDs(tabs, sampleTabs)
	if err != nil {
		return err
	}
	loaded, err := stash.LoadTabs(ctx, loader, lg, sel.Selected(tabs), stash.DefaultFetchLimit)
	if err != nil {
		log.Error("Failed to load selected tabs", err, "league", lg)
		return err
	}

	res := newFetcher(loader).Fetch(ctx, grouping.DivinationCard, lg)
	smp := sample.Build(lg, loaded, res)

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.SaveSample(smp); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch outFile {
	case "":
		printSample(out, smp)
	case "-":
		if err := export.WriteCSV(out, smp); err != nil {
			return err
		}
	default:
		if err := writeCSVFile(outFile, smp); err != nil {
			return err
		}
		printSample(out, smp)
		fmt.Fprintf(out, "written to %s\n", outFile)
	}

	if toSheets {
		var opts []option.ClientOption
		if f := cfg.GoogleCredsFile(); f != "" {
			opts = append(opts, option.WithCredentialsFile(f))
		}
		exporter, err := export.NewSheetsExporter(ctx, log, opts...)
		if err != nil {
			return err
		}
		exported, err := exporter.Export(ctx, smp, sheetTitle)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "spreadsheet: %s\n", exported.URL)
	}
	return nil
}

func writeCSVFile(path string, smp sample.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.WriteCSV(f, smp); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runSamples(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if deleteID != "" {
		if err := store.DeleteSample(deleteID); err != nil {
			return fmt.Errorf("failed to delete sample %s: %w", deleteID, err)
		}
		log.Info("Sample deleted", "id", deleteID)
	}
	if cleanupAge > 0 {
		n, err := store.Cleanup(cleanupAge)
		if err != nil {
			return err
		}
		log.Info("Old samples removed", "count", n, "older_than", cleanupAge.String())
	}

	list, err := store.ListSamples()
	if err != nil {
		return err
	}
	printSummaries(cmd.OutOrStdout(), list)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	loader := newLoader()
	srv := server.New(loader, newFetcher(loader), store,
		server.WithLogger(log),
		server.WithAllowedOrigins(cfg.AllowedOrigins()))

	if lg, err := league(leagueFlag); err == nil {
		srv.SetLeague(lg)
	}

	addr := listenAddr
	if addr == "" {
		addr = cfg.ListenAddr()
	}
	return srv.ListenAndServe(cmd.Context(), addr)
}
