package pricing

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Column string

const (
	ColumnName     Column = "name"
	ColumnVariant  Column = "variant"
	ColumnTier     Column = "tier"
	ColumnLevel    Column = "level"
	ColumnQuality  Column = "quality"
	ColumnTabIndex Column = "tab"
	ColumnQty      Column = "qty"
	ColumnPrice    Column = "price"
	ColumnTotal    Column = "total"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func ParseColumn(s string) (Column, error) {
	switch c := Column(strings.ToLower(strings.TrimSpace(s))); c {
	case ColumnName, ColumnVariant, ColumnTier, ColumnLevel, ColumnQuality,
		ColumnTabIndex, ColumnQty, ColumnPrice, ColumnTotal:
		return c, nil
	case "quantity", "amount":
		return ColumnQty, nil
	case "tab_index", "tabindex", "stash":
		return ColumnTabIndex, nil
	}
	return "", fmt.Errorf("unknown sort column %q", s)
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// SortRows sorts rows in place. Equal rows keep their order. Text columns
// use an English collator, numeric columns compare by value.
func SortRows(rows []Row, col Column, dir Direction) {
	compare := comparator(col)
	if dir == Desc {
		asc := compare
		compare = func(a, b Row) int { return asc(b, a) }
	}
	slices.SortStableFunc(rows, compare)
}

func comparator(col Column) func(a, b Row) int {
	switch col {
	case ColumnName, ColumnVariant:
		collator := collate.New(language.English)
		text := func(r Row) string { return r.Name }
		if col == ColumnVariant {
			text = func(r Row) string { return r.Variant }
		}
		return func(a, b Row) int { return collator.CompareString(text(a), text(b)) }
	case ColumnTier:
		return func(a, b Row) int { return cmp.Compare(a.Tier, b.Tier) }
	case ColumnLevel:
		return func(a, b Row) int { return cmp.Compare(a.Level, b.Level) }
	case ColumnQuality:
		return func(a, b Row) int { return cmp.Compare(a.Quality, b.Quality) }
	case ColumnTabIndex:
		return func(a, b Row) int { return cmp.Compare(a.TabIndex, b.TabIndex) }
	case ColumnQty:
		return func(a, b Row) int { return cmp.Compare(a.Qty, b.Qty) }
	case ColumnPrice:
		return func(a, b Row) int { return cmp.Compare(a.Price, b.Price) }
	default:
		return func(a, b Row) int { return cmp.Compare(a.Total, b.Total) }
	}
}
