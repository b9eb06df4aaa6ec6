package pricing

import (
	"context"
	"fmt"

	"divicards/internal/grouping"
	"divicards/internal/models"
)

// Source returns the price table of a category in a league.
type Source interface {
	Prices(ctx context.Context, c grouping.Category, league string) (Table, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, c grouping.Category, league string) (Table, error)

func (f SourceFunc) Prices(ctx context.Context, c grouping.Category, league string) (Table, error) {
	return f(ctx, c, league)
}

// PriceLookup is the aggregator price family. *ninja.Client and
// *stashapi.Loader implement it.
type PriceLookup interface {
	MapPrices(ctx context.Context, league string) ([]models.MapPrice, error)
	CurrencyPrices(ctx context.Context, league string) ([]models.PriceRow, error)
	FragmentPrices(ctx context.Context, league string) ([]models.PriceRow, error)
	EssencePrices(ctx context.Context, league string) ([]models.PriceRow, error)
	GemPrices(ctx context.Context, league string) ([]models.GemPrice, error)
	OilPrices(ctx context.Context, league string) ([]models.PriceRow, error)
	IncubatorPrices(ctx context.Context, league string) ([]models.PriceRow, error)
	FossilPrices(ctx context.Context, league string) ([]models.PriceRow, error)
	ResonatorPrices(ctx context.Context, league string) ([]models.PriceRow, error)
	DeliriumOrbPrices(ctx context.Context, league string) ([]models.PriceRow, error)
	VialPrices(ctx context.Context, league string) ([]models.PriceRow, error)
	DivinationCardPrices(ctx context.Context, league string) ([]models.PriceRow, error)
}

// LookupSource dispatches each category to its PriceLookup method.
type LookupSource struct {
	Lookup PriceLookup
}

type rowsFunc func(PriceLookup, context.Context, string) ([]models.PriceRow, error)

var rowFetchers = map[grouping.Category]rowsFunc{
	grouping.Currency:       PriceLookup.CurrencyPrices,
	grouping.Fragment:       PriceLookup.FragmentPrices,
	grouping.Essence:        PriceLookup.EssencePrices,
	grouping.Oil:            PriceLookup.OilPrices,
	grouping.Incubator:      PriceLookup.IncubatorPrices,
	grouping.Fossil:         PriceLookup.FossilPrices,
	grouping.Resonator:      PriceLookup.ResonatorPrices,
	grouping.DeliriumOrb:    PriceLookup.DeliriumOrbPrices,
	grouping.Vial:           PriceLookup.VialPrices,
	grouping.DivinationCard: PriceLookup.DivinationCardPrices,
}

func (s LookupSource) Prices(ctx context.Context, c grouping.Category, league string) (Table, error) {
	switch c {
	case grouping.Map:
		rows, err := s.Lookup.MapPrices(ctx, league)
		if err != nil {
			return nil, err
		}
		return TableFromMaps(rows), nil
	case grouping.Gem:
		rows, err := s.Lookup.GemPrices(ctx, league)
		if err != nil {
			return nil, err
		}
		return TableFromGems(rows), nil
	}

	fetch, ok := rowFetchers[c]
	if !ok {
		return nil, fmt.Errorf("no price source for category %q", c)
	}
	rows, err := fetch(s.Lookup, ctx, league)
	if err != nil {
		return nil, err
	}
	return TableFromRows(c, rows), nil
}
