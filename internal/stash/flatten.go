package stash

import "divicards/internal/models"

// Flatten lifts the children of every tab to the top level. A non-folder tab
// is kept and immediately followed by its children; a folder is replaced by
// its children. Only one level of nesting is expanded. The input is not
// modified.
func Flatten(tabs []models.StashTab) []models.StashTab {
	out := make([]models.StashTab, 0, len(tabs))
	for _, tab := range tabs {
		if !tab.IsFolder() {
			out = append(out, tab)
		}
		out = append(out, tab.Children...)
	}
	return out
}
