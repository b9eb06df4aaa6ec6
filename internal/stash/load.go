package stash

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"divicards/internal/models"
)

// DefaultFetchLimit bounds concurrent tab requests.
const DefaultFetchLimit = 4

// BadgeLoader fetches the contents of a tab listed by the stash list call.
type BadgeLoader interface {
	TabFromBadge(ctx context.Context, league string, badge models.StashTab) (models.StashTab, error)
}

// SelectIDs returns a selection of tabs with ids selected. Unknown ids are
// an error.
func SelectIDs(tabs []models.StashTab, ids []string) (Selection, error) {
	sel := NewSelection(tabs)
	for _, id := range ids {
		if _, ok := sel[id]; !ok {
			return nil, fmt.Errorf("unknown tab id %q", id)
		}
		sel.Select(id)
	}
	return sel, nil
}

// LoadTabs fetches badges with at most limit requests in flight and returns
// the tabs in badge order. The first error cancels the remaining requests.
func LoadTabs(ctx context.Context, l BadgeLoader, league string, badges []models.StashTab, limit int) ([]models.StashTab, error) {
	if limit < 1 {
		limit = DefaultFetchLimit
	}

	loaded := make([]models.StashTab, len(badges))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, badge := range badges {
		g.Go(func() error {
			tab, err := l.TabFromBadge(gctx, league, badge)
			if err != nil {
				return err
			}
			loaded[i] = tab
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return loaded, nil
}
