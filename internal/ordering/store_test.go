package ordering

import (
	"testing"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/AdamBeresnev/wc-bracket/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teamNames(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Team.Name
	}
	return out
}

func TestItemsDefaultToRegistry(t *testing.T) {
	store := NewStore(registry.Groups())

	items, err := store.Items("Group E")
	require.NoError(t, err)
	assert.Equal(t, []string{"Germany", "Ecuador", "Ivory Coast", "Curaçao"}, teamNames(items))
	assert.Equal(t, ItemID("Group E", 0), items[0].ID)
	assert.False(t, store.Customized("Group E"))
	assert.Empty(t, store.Ordering())

	_, err = store.Items("Group Z")
	assert.ErrorIs(t, err, ErrUnknownGroup)
}

func TestItemIDIsStable(t *testing.T) {
	assert.Equal(t, ItemID("Group A", 2), ItemID("Group A", 2))
	assert.NotEqual(t, ItemID("Group A", 2), ItemID("Group B", 2))
	assert.NotEqual(t, ItemID("Group A", 2), ItemID("Group A", 3))
}

func TestMove(t *testing.T) {
	store := NewStore(registry.Groups())
	items, _ := store.Items("Group E")

	changed, err := store.Move("Group E", items[3].ID, items[0].ID)
	require.NoError(t, err)
	assert.True(t, changed)

	moved, _ := store.Items("Group E")
	assert.Equal(t, []string{"Curaçao", "Germany", "Ecuador", "Ivory Coast"}, teamNames(moved))
	assert.True(t, store.Customized("Group E"))
	assert.Equal(t, "Ecuador", store.Ordering()["Group E"][2].Name)

	changed, err = store.Move("Group E", items[1].ID, items[1].ID)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = store.Move("Group E", "nope", items[1].ID)
	assert.ErrorIs(t, err, ErrUnknownItem)
	_, err = store.Move("Group E", items[1].ID, ItemID("Group A", 0))
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestMoveKeepsIdentityForDuplicateNames(t *testing.T) {
	twin := bracket.Team{Name: "Twin"}
	reg := bracket.Registry{{Name: "Group A", Teams: []bracket.Team{twin, {Name: "Other"}, twin, {Name: "Last"}}}}
	store := NewStore(reg)

	first := ItemID("Group A", 0)
	_, err := store.Move("Group A", first, ItemID("Group A", 3))
	require.NoError(t, err)

	items, _ := store.Items("Group A")
	assert.Equal(t, first, items[3].ID)
	assert.Equal(t, ItemID("Group A", 2), items[1].ID)
}

func TestSetOrder(t *testing.T) {
	store := NewStore(registry.Groups())
	ids := []string{ItemID("Group A", 3), ItemID("Group A", 2), ItemID("Group A", 1), ItemID("Group A", 0)}

	require.NoError(t, store.SetOrder("Group A", ids))
	items, _ := store.Items("Group A")
	assert.Equal(t, "PO-Spot (UEFA D)", items[0].Team.Name)

	assert.ErrorIs(t, store.SetOrder("Group A", ids[:3]), ErrNotPermutation)
	assert.ErrorIs(t, store.SetOrder("Group A", append(ids[:3:3], ids[0])), ErrNotPermutation)
	assert.ErrorIs(t, store.SetOrder("Group Q", ids), ErrUnknownGroup)
}

func TestSnapshotRestore(t *testing.T) {
	store := NewStore(registry.Groups())
	items, _ := store.Items("Group B")
	_, err := store.Move("Group B", items[2].ID, items[0].ID)
	require.NoError(t, err)

	snap := store.Snapshot()
	restored := NewStore(registry.Groups())
	rejected := restored.Restore(snap)
	assert.Empty(t, rejected)
	assert.Equal(t, store.Ordering(), restored.Ordering())

	// Snapshot is detached from the store
	snap["Group B"][0] = Item{}
	again, _ := store.Items("Group B")
	assert.Equal(t, "Qatar", again[0].Team.Name)
}

func TestRestoreRejectsBrokenGroups(t *testing.T) {
	store := NewStore(registry.Groups())
	good, _ := store.Items("Group C")
	bad, _ := store.Items("Group D")

	snap := map[string][]Item{
		"Group C": good,
		"Group D": bad[:3],
		"Group X": good,
	}
	rejected := store.Restore(snap)
	assert.ElementsMatch(t, []string{"Group D", "Group X"}, rejected)
	assert.True(t, store.Customized("Group C"))
	assert.False(t, store.Customized("Group D"))
}

func TestReset(t *testing.T) {
	store := NewStore(registry.Groups())
	items, _ := store.Items("Group L")
	_, _ = store.Move("Group L", items[0].ID, items[1].ID)
	store.Reset()
	assert.False(t, store.Customized("Group L"))
}
