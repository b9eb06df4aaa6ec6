// Package grouping aggregates stash items per category specific key.
package grouping

import (
	"fmt"
	"strings"

	"divicards/internal/models"
)

// Category selects how items are keyed and which price overview applies.
type Category string

const (
	Currency       Category = "currency"
	Fragment       Category = "fragment"
	Map            Category = "map"
	Essence        Category = "essence"
	Gem            Category = "gem"
	Oil            Category = "oil"
	Incubator      Category = "incubator"
	Fossil         Category = "fossil"
	Resonator      Category = "resonator"
	DeliriumOrb    Category = "delirium-orb"
	Vial           Category = "vial"
	DivinationCard Category = "divination-card"
)

// Categories lists every category in display order.
var Categories = []Category{
	Currency, Fragment, Map, Essence, Gem, Oil, Incubator,
	Fossil, Resonator, DeliriumOrb, Vial, DivinationCard,
}

// Key identifies a group. A category only fills the fields it distinguishes
// on; the same key addresses the price table.
type Key struct {
	Name    string `json:"name"`
	Variant string `json:"variant,omitempty"`
	Tier    int    `json:"tier,omitempty"`
	Level   int    `json:"level,omitempty"`
	Quality int    `json:"quality,omitempty"`
}

func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Name)
	if k.Variant != "" {
		fmt.Fprintf(&b, " [%s]", k.Variant)
	}
	if k.Tier != 0 {
		fmt.Fprintf(&b, " T%d", k.Tier)
	}
	if k.Level != 0 || k.Quality != 0 {
		fmt.Fprintf(&b, " %d/%d", k.Level, k.Quality)
	}
	return b.String()
}

// ItemKey derives the group key of an item for category c.
func (c Category) ItemKey(item models.Item) Key {
	switch c {
	case Essence:
		return EssenceKey(itemName(item))
	case Gem:
		return GemKey(item)
	case Map:
		return MapKey(item)
	default:
		return Key{Name: itemName(item)}
	}
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts the category names with '-', '_' or spaces.
func ParseCategory(s string) (Category, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	switch norm {
	case "divination", "cards", "divinationcard":
		return DivinationCard, nil
	case "deliriumorb", "delirium":
		return DeliriumOrb, nil
	case "gems", "skillgem", "skill-gem":
		return Gem, nil
	case "maps":
		return Map, nil
	case "essences":
		return Essence, nil
	}
	c := Category(norm)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// itemName is typeLine, then baseType, then name.
func itemName(item models.Item) string {
	switch {
	case item.TypeLine != "":
		return item.TypeLine
	case item.BaseType != "":
		return item.BaseType
	default:
		return item.Name
	}
}
