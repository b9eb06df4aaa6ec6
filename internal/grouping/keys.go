package grouping

import (
	"regexp"
	"strconv"
	"strings"

	"divicards/internal/models"
)

var (
	essenceRe = regexp.MustCompile(`^(\S+) (Essence of .+)$`)
	intRe     = regexp.MustCompile(`\d+`)
)

// ParseEssence splits "<Tier> Essence of <Kind>" into base and tier. Names
// that do not match are returned whole with an empty variant.
func ParseEssence(typeLine string) (base, variant string) {
	s := strings.TrimSpace(typeLine)
	m := essenceRe.FindStringSubmatch(s)
	if m == nil {
		return s, ""
	}
	return m[2], m[1]
}

func EssenceKey(typeLine string) Key {
	base, variant := ParseEssence(typeLine)
	return Key{Name: base, Variant: variant}
}

// GemKey keys a gem by name, level and quality read from its properties.
func GemKey(item models.Item) Key {
	return Key{
		Name:    itemName(item),
		Level:   PropertyInt(item.Properties, "Gem Level", "Level"),
		Quality: PropertyInt(item.Properties, "Quality"),
	}
}

// MapKey keys a map by base type and tier.
func MapKey(item models.Item) Key {
	name := item.BaseType
	if name == "" {
		name = item.TypeLine
	}
	return Key{Name: name, Tier: PropertyInt(item.Properties, "Map Tier")}
}

// PropertyInt returns the first integer embedded in the value of the first
// property whose name is one of names, or 0.
func PropertyInt(props []models.Property, names ...string) int {
	for _, p := range props {
		for _, n := range names {
			if p.Name != n {
				continue
			}
			digits := intRe.FindString(p.FirstValue())
			if digits == "" {
				return 0
			}
			v, err := strconv.Atoi(digits)
			if err != nil {
				return 0
			}
			return v
		}
	}
	return 0
}
