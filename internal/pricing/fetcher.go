package pricing

import (
	"context"
	"fmt"

	"divicards/internal/grouping"
	"divicards/pkg/core"
	"divicards/pkg/logger"
)

// DefaultReferenceLeague is the league tried when the requested one has no
// prices.
const DefaultReferenceLeague = "Standard"

// Result is a price table ready for display. PriceLeague is the league the
// table came from; Err is kept when neither league produced prices.
type Result struct {
	Category    grouping.Category
	League      string
	PriceLeague string
	Prices      Table
	Err         error
}

// Degraded reports whether the prices could not be loaded.
func (r Result) Degraded() bool {
	return r.Err != nil
}

// ErrorMessage is the display text of Err, "" when prices loaded.
func (r Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Fetcher loads price tables and falls back to a reference league once.
type Fetcher struct {
	source          Source
	referenceLeague string
	log             core.Logger
}

type FetcherOption func(*Fetcher)

func WithReferenceLeague(league string) FetcherOption {
	return func(f *Fetcher) {
		if league != "" {
			f.referenceLeague = league
		}
	}
}

func WithFetcherLogger(l core.Logger) FetcherOption {
	return func(f *Fetcher) { f.log = l }
}

func NewFetcher(source Source, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		source:          source,
		referenceLeague: DefaultReferenceLeague,
		log:             logger.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) ReferenceLeague() string {
	return f.referenceLeague
}

// Fetch never fails: when the league and the reference league both error
// or come back empty, the result carries an empty table and the last error.
func (f *Fetcher) Fetch(ctx context.Context, c grouping.Category, league string) Result {
	res := Result{Category: c, League: league, Prices: Table{}}

	prices, err := f.try(ctx, c, league)
	if err == nil {
		res.PriceLeague = league
		res.Prices = prices
		return res
	}

	if league == f.referenceLeague || ctx.Err() != nil {
		res.Err = err
		return res
	}

	f.log.Warn("Falling back to reference league",
		"category", string(c),
		"league", league,
		"reference_league", f.referenceLeague,
		"reason", err.Error())

	prices, err = f.try(ctx, c, f.referenceLeague)
	if err != nil {
		f.log.Error("Reference league prices unavailable", err, "category", string(c))
		res.Err = err
		return res
	}
	res.PriceLeague = f.referenceLeague
	res.Prices = prices
	return res
}

func (f *Fetcher) try(ctx context.Context, c grouping.Category, league string) (Table, error) {
	prices, err := f.source.Prices(ctx, c, league)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s prices for %s: %w", c, league, err)
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("no %s prices for league %s", c, league)
	}
	return prices, nil
}
