package grouping

import "divicards/internal/models"

// Group is the aggregated quantity of one key. Sample is the first item seen
// for the key and TabIndex the index of the tab it came from.
type Group struct {
	Key      Key         `json:"key"`
	Total    int         `json:"total"`
	Sample   models.Item `json:"sample"`
	TabIndex int         `json:"tab_index"`
}

// GroupItems aggregates items by the category key. Groups are returned in the
// order their key was first seen.
func GroupItems(c Category, items []models.Item) []Group {
	g := newGrouper(c)
	for _, item := range items {
		g.add(item, 0)
	}
	return g.groups
}

// GroupTabs aggregates the items of several tabs into one set of groups.
func GroupTabs(c Category, tabs []models.StashTab) []Group {
	g := newGrouper(c)
	for _, tab := range tabs {
		for _, item := range tab.Items {
			g.add(item, tab.Index)
		}
	}
	return g.groups
}

type grouper struct {
	category Category
	index    map[Key]int
	groups   []Group
}

func newGrouper(c Category) *grouper {
	return &grouper{category: c, index: make(map[Key]int), groups: []Group{}}
}

func (g *grouper) add(item models.Item, tabIndex int) {
	key := g.category.ItemKey(item)
	if i, ok := g.index[key]; ok {
		g.groups[i].Total += item.Quantity()
		return
	}
	g.index[key] = len(g.groups)
	g.groups = append(g.groups, Group{
		Key:      key,
		Total:    item.Quantity(),
		Sample:   item,
		TabIndex: tabIndex,
	})
}

// Totals maps each key to its summed quantity.
func Totals(groups []Group) map[Key]int {
	out := make(map[Key]int, len(groups))
	for _, g := range groups {
		out[g.Key] += g.Total
	}
	return out
}
