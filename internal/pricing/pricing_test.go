package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"divicards/internal/grouping"
	"divicards/internal/models"
)

func chaos(v float64) *float64 { return &v }

func TestTableFromRows_Essence(t *testing.T) {
	table := TableFromRows(grouping.Essence, []models.PriceRow{
		{Name: "Screaming Essence of Hatred", ChaosValue: chaos(2)},
		{Name: "Essence of Hysteria", ChaosValue: chaos(9)},
		{Name: "Screaming Essence of Hatred", ChaosValue: chaos(99)},
		{Name: "Weeping Essence of Zeal", ChaosValue: nil},
	})

	assert.Len(t, table, 2)
	assert.Equal(t, 2.0, table.Price(grouping.Key{Name: "Essence of Hatred", Variant: "Screaming"}))
	assert.Equal(t, 9.0, table.Price(grouping.Key{Name: "Essence of Hysteria"}))
	assert.Zero(t, table.Price(grouping.Key{Name: "Essence of Zeal", Variant: "Weeping"}))
}

func TestTableFromGems_PrefersUncorrupted(t *testing.T) {
	table := TableFromGems([]models.GemPrice{
		{Name: "Fireball", Level: 21, Quality: 20, Corrupted: true, ChaosValue: chaos(30)},
		{Name: "Fireball", Level: 21, Quality: 20, ChaosValue: chaos(40)},
		{Name: "Fireball", Level: 20, Quality: 20, ChaosValue: chaos(1)},
		{Name: "Fireball", Level: 20, Quality: 20, Corrupted: true, ChaosValue: chaos(5)},
	})

	assert.Equal(t, 40.0, table.Price(grouping.Key{Name: "Fireball", Level: 21, Quality: 20}))
	assert.Equal(t, 1.0, table.Price(grouping.Key{Name: "Fireball", Level: 20, Quality: 20}))
}

func TestTableFromMaps(t *testing.T) {
	table := TableFromMaps([]models.MapPrice{{Name: "Strand Map", Tier: 16, ChaosValue: chaos(3)}})
	assert.Equal(t, 3.0, table.Price(grouping.Key{Name: "Strand Map", Tier: 16}))
}

func TestAnnotate(t *testing.T) {
	groups := []grouping.Group{
		{Key: grouping.Key{Name: "Essence of Hatred", Variant: "Screaming"}, Total: 3, TabIndex: 2},
		{Key: grouping.Key{Name: "Essence of Woe", Variant: "Deafening"}, Total: 4},
	}
	prices := Table{grouping.Key{Name: "Essence of Hatred", Variant: "Screaming"}: 1.27}

	rows := Annotate(groups, prices)
	require.Len(t, rows, 2)

	assert.Equal(t, "Essence of Hatred", rows[0].Name)
	assert.Equal(t, "Screaming", rows[0].Variant)
	assert.Equal(t, 2, rows[0].TabIndex)
	assert.Equal(t, 1.27, rows[0].Price)
	assert.Equal(t, 3.8, rows[0].Total)

	assert.Zero(t, rows[1].Price)
	assert.Zero(t, rows[1].Total)
	assert.Equal(t, 3.8, Sum(rows))
}

func TestSortRows(t *testing.T) {
	rows := []Row{{Name: "b", Total: 5}, {Name: "a", Total: 20}, {Name: "c", Total: 1}}
	SortRows(rows, ColumnTotal, Desc)
	assert.Equal(t, []float64{20, 5, 1}, totals(rows))

	SortRows(rows, ColumnTotal, Asc)
	assert.Equal(t, []float64{1, 5, 20}, totals(rows))
}

func TestSortRows_LocaleAwareText(t *testing.T) {
	rows := []Row{{Name: "zeal"}, {Name: "Éclair"}, {Name: "anger"}, {Name: "Envy"}}
	SortRows(rows, ColumnName, Asc)

	var names []string
	for _, r := range rows {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"anger", "Éclair", "Envy", "zeal"}, names)
}

func TestSortRows_Stable(t *testing.T) {
	rows := []Row{
		{Name: "first", Qty: 1},
		{Name: "second", Qty: 1},
		{Name: "third", Qty: 0},
		{Name: "fourth", Qty: 1},
	}
	SortRows(rows, ColumnQty, Desc)
	assert.Equal(t, "first", rows[0].Name)
	assert.Equal(t, "second", rows[1].Name)
	assert.Equal(t, "fourth", rows[2].Name)
	assert.Equal(t, "third", rows[3].Name)
}

func TestParseColumnAndDirection(t *testing.T) {
	col, err := ParseColumn("Quantity")
	require.NoError(t, err)
	assert.Equal(t, ColumnQty, col)

	_, err = ParseColumn("icon")
	assert.Error(t, err)

	dir, err := ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, Asc, dir)

	dir, err = ParseDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, Desc, dir)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}

func totals(rows []Row) []float64 {
	var out []float64
	for _, r := range rows {
		out = append(out, r.Total)
	}
	return out
}

func TestPaginate(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	assert.Equal(t, items[10:20], Paginate(items, 2, 10))
	assert.Equal(t, items[20:25], Paginate(items, 3, 10))
	assert.Equal(t, []int{}, Paginate(items[:5], 2, 10))
	assert.Equal(t, []int{}, Paginate(items, 0, 10))
	assert.Equal(t, []int{}, Paginate(items, 1, 0))
	assert.Equal(t, []int{}, Paginate(items[:8], 1<<62+1, 4))
}

func TestPageRange(t *testing.T) {
	start, end, ok := PageRange(2, 10, 25)
	assert.True(t, ok)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	_, _, ok = PageRange(0, 10, 25)
	assert.False(t, ok, "negative start")

	_, _, ok = PageRange(1, 10, 0)
	assert.False(t, ok, "empty list")

	_, _, ok = PageRange(2, 10, 5)
	assert.False(t, ok, "past the end")

	start, end, ok = PageRange(2, 10, 20)
	assert.True(t, ok, "last full page")
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	_, _, ok = PageRange(3, 10, 20)
	assert.False(t, ok, "one past a full last page")

	_, _, ok = PageRange(1<<62+1, 4, 8)
	assert.False(t, ok, "page large enough to overflow the offset")

	_, _, ok = PageRange(-1<<62, 4, 8)
	assert.False(t, ok, "negative page")

	start, end, ok = PageRange(1, int(^uint(0)>>1), 3)
	assert.True(t, ok, "huge page size")
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)
}

func TestPageOf_Label(t *testing.T) {
	rows := make([]Row, 25)
	p := PageOf(rows, 3, 10)
	assert.Len(t, p.Rows, 5)
	assert.Equal(t, "21–25 of 25", p.Label())

	empty := PageOf(rows, 4, 10)
	assert.Empty(t, empty.Rows)
	assert.Equal(t, "", empty.Label())
}

type fakeSource map[string]Table

func (f fakeSource) Prices(ctx context.Context, c grouping.Category, league string) (Table, error) {
	table, ok := f[league]
	if !ok {
		return nil, errors.New("league " + league + " unavailable")
	}
	return table, nil
}

func TestFetcher_PrimaryLeague(t *testing.T) {
	f := NewFetcher(fakeSource{"Settlers": {grouping.Key{Name: "x"}: 1}})
	res := f.Fetch(context.Background(), grouping.Essence, "Settlers")

	assert.False(t, res.Degraded())
	assert.Equal(t, "Settlers", res.PriceLeague)
	assert.Len(t, res.Prices, 1)
}

func TestFetcher_FallsBackOnEmpty(t *testing.T) {
	f := NewFetcher(fakeSource{
		"Settlers": {},
		"Standard": {grouping.Key{Name: "x"}: 2},
	})
	res := f.Fetch(context.Background(), grouping.Gem, "Settlers")

	assert.False(t, res.Degraded())
	assert.Equal(t, "Settlers", res.League)
	assert.Equal(t, "Standard", res.PriceLeague)
	assert.Equal(t, 2.0, res.Prices.Price(grouping.Key{Name: "x"}))
}

func TestFetcher_FallsBackOnError(t *testing.T) {
	f := NewFetcher(fakeSource{"Hardcore": {grouping.Key{Name: "x"}: 3}}, WithReferenceLeague("Hardcore"))
	res := f.Fetch(context.Background(), grouping.Essence, "Nope")

	assert.Equal(t, "Hardcore", res.PriceLeague)
	assert.Equal(t, "Hardcore", f.ReferenceLeague())
}

func TestFetcher_BothEmptyKeepsError(t *testing.T) {
	f := NewFetcher(fakeSource{"Settlers": {}, "Standard": {}})
	res := f.Fetch(context.Background(), grouping.Essence, "Settlers")

	assert.True(t, res.Degraded())
	assert.Empty(t, res.Prices)
	assert.Contains(t, res.ErrorMessage(), "Standard")

	rows := Annotate([]grouping.Group{{Key: grouping.Key{Name: "x"}, Total: 10}}, res.Prices)
	assert.Zero(t, rows[0].Total)
}

func TestFetcher_ReferenceLeagueNotRetried(t *testing.T) {
	calls := 0
	f := NewFetcher(SourceFunc(func(ctx context.Context, c grouping.Category, league string) (Table, error) {
		calls++
		return nil, errors.New("down")
	}))
	res := f.Fetch(context.Background(), grouping.Vial, "Standard")

	assert.Equal(t, 1, calls)
	assert.ErrorContains(t, res.Err, "down")
}

type fakeLookup struct {
	PriceLookup
	cards []models.PriceRow
	gems  []models.GemPrice
}

func (f fakeLookup) DivinationCardPrices(ctx context.Context, league string) ([]models.PriceRow, error) {
	return f.cards, nil
}

func (f fakeLookup) GemPrices(ctx context.Context, league string) ([]models.GemPrice, error) {
	return f.gems, nil
}

func TestLookupSource_Dispatch(t *testing.T) {
	src := LookupSource{Lookup: fakeLookup{
		cards: []models.PriceRow{{Name: "The Doctor", ChaosValue: chaos(900)}},
		gems:  []models.GemPrice{{Name: "Fireball", Level: 20, Quality: 23, ChaosValue: chaos(2)}},
	}}

	cards, err := src.Prices(context.Background(), grouping.DivinationCard, "Standard")
	require.NoError(t, err)
	assert.Equal(t, 900.0, cards.Price(grouping.Key{Name: "The Doctor"}))

	gems, err := src.Prices(context.Background(), grouping.Gem, "Standard")
	require.NoError(t, err)
	assert.Equal(t, 2.0, gems.Price(grouping.Key{Name: "Fireball", Level: 20, Quality: 23}))

	_, err = src.Prices(context.Background(), grouping.Category("uniques"), "Standard")
	assert.Error(t, err)
}
