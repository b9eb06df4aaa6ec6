package stash

import "divicards/internal/models"

// Selection tracks which tabs the user picked, keyed by tab id. It lives
// beside the tab list so the fetched tabs stay untouched.
type Selection map[string]bool

// NewSelection returns a selection with every tab deselected.
func NewSelection(tabs []models.StashTab) Selection {
	s := make(Selection, len(tabs))
	for _, tab := range tabs {
		s[tab.ID] = false
	}
	return s
}

func (s Selection) Select(id string) {
	s[id] = true
}

func (s Selection) Deselect(id string) {
	s[id] = false
}

// Toggle flips the flag and returns the new value.
func (s Selection) Toggle(id string) bool {
	s[id] = !s[id]
	return s[id]
}

func (s Selection) IsSelected(id string) bool {
	return s[id]
}

// SelectedIDs returns the ids of selected tabs in tab order.
func (s Selection) SelectedIDs(tabs []models.StashTab) []string {
	var ids []string
	for _, tab := range s.Selected(tabs) {
		ids = append(ids, tab.ID)
	}
	return ids
}

// Selected returns the selected tabs in tab order.
func (s Selection) Selected(tabs []models.StashTab) []models.StashTab {
	var out []models.StashTab
	for _, tab := range tabs {
		if s[tab.ID] {
			out = append(out, tab)
		}
	}
	return out
}
