// Package pricing joins grouped stash items with aggregator prices.
package pricing

import (
	"divicards/internal/grouping"
	"divicards/internal/models"
)

// Table maps a group key to its chaos value.
type Table map[grouping.Key]float64

// Price returns the chaos value of k, 0 when unknown.
func (t Table) Price(k grouping.Key) float64 {
	return t[k]
}

// TableFromRows keys name/variant rows the way category c keys items.
// Essences parse the tier out of the name, every other category is keyed by
// name only. Rows without a value are skipped; the first row for a key wins.
func TableFromRows(c grouping.Category, rows []models.PriceRow) Table {
	t := make(Table, len(rows))
	for _, row := range rows {
		if row.ChaosValue == nil {
			continue
		}
		var key grouping.Key
		if c == grouping.Essence {
			key = grouping.EssenceKey(row.Name)
			if key.Variant == "" {
				key.Variant = row.Variant
			}
		} else {
			key = grouping.Key{Name: row.Name}
		}
		if _, seen := t[key]; !seen {
			t[key] = *row.ChaosValue
		}
	}
	return t
}

// TableFromMaps keys map rows by name and tier.
func TableFromMaps(rows []models.MapPrice) Table {
	t := make(Table, len(rows))
	for _, row := range rows {
		if row.ChaosValue == nil {
			continue
		}
		key := grouping.Key{Name: row.Name, Tier: row.Tier}
		if _, seen := t[key]; !seen {
			t[key] = *row.ChaosValue
		}
	}
	return t
}

// TableFromGems keys gem rows by name, level and quality. An uncorrupted row
// replaces a corrupted one for the same key.
func TableFromGems(rows []models.GemPrice) Table {
	t := make(Table, len(rows))
	corrupted := make(map[grouping.Key]bool)
	for _, row := range rows {
		if row.ChaosValue == nil {
			continue
		}
		key := grouping.Key{Name: row.Name, Level: row.Level, Quality: row.Quality}
		if _, seen := t[key]; seen && !(corrupted[key] && !row.Corrupted) {
			continue
		}
		t[key] = *row.ChaosValue
		corrupted[key] = row.Corrupted
	}
	return t
}
