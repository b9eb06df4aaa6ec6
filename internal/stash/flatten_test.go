package stash

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"divicards/internal/models"
)

func tab(id, typ string, children ...models.StashTab) models.StashTab {
	return models.StashTab{ID: id, Name: id, Type: typ, Children: children}
}

func ids(tabs []models.StashTab) []string {
	out := []string{}
	for _, t := range tabs {
		out = append(out, t.ID)
	}
	return out
}

func TestFlatten_Empty(t *testing.T) {
	assert.Empty(t, Flatten(nil))
	assert.Empty(t, Flatten([]models.StashTab{}))
}

func TestFlatten_Order(t *testing.T) {
	input := []models.StashTab{
		tab("a", "PremiumStash"),
		tab("folder", models.FolderType, tab("f1", "PremiumStash"), tab("f2", "QuadStash")),
		tab("maps", "MapStash", tab("m1", "MapStash"), tab("m2", "MapStash")),
		tab("b", "CurrencyStash"),
		tab("empty-folder", models.FolderType),
	}

	got := ids(Flatten(input))
	want := []string{"a", "f1", "f2", "maps", "m1", "m2", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_NoFolderInOutput(t *testing.T) {
	input := []models.StashTab{
		tab("x", models.FolderType, tab("x1", "PremiumStash")),
		tab("y", "PremiumStash"),
	}
	for _, got := range Flatten(input) {
		assert.False(t, got.IsFolder(), "folder %s leaked into output", got.ID)
	}
}

func TestFlatten_DoesNotMutateInput(t *testing.T) {
	input := []models.StashTab{
		tab("folder", models.FolderType, tab("f1", "PremiumStash")),
	}
	want := []models.StashTab{
		tab("folder", models.FolderType, tab("f1", "PremiumStash")),
	}

	out := Flatten(input)
	out[0].Name = "renamed"

	if diff := cmp.Diff(want, input); diff != "" {
		t.Errorf("input changed (-want +got):\n%s", diff)
	}
}

func TestSelection(t *testing.T) {
	tabs := []models.StashTab{tab("a", "PremiumStash"), tab("b", "PremiumStash"), tab("c", "PremiumStash")}
	sel := NewSelection(tabs)

	assert.Len(t, sel, 3)
	assert.Empty(t, sel.SelectedIDs(tabs))

	sel.Select("c")
	assert.True(t, sel.Toggle("a"))
	assert.Equal(t, []string{"a", "c"}, sel.SelectedIDs(tabs))

	assert.False(t, sel.Toggle("a"))
	sel.Deselect("c")
	assert.False(t, sel.IsSelected("c"))
	assert.Empty(t, sel.Selected(tabs))

	for _, tb := range tabs {
		assert.Equal(t, tb.ID, tb.Name, "tabs must stay untouched")
	}
}
