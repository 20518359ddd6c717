package standings

import (
	"testing"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/AdamBeresnev/wc-bracket/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveDefaultOrder(t *testing.T) {
	reg := registry.Groups()
	placements := Derive(nil, reg)

	e := placements["Group E"]
	require.NotNil(t, e.Third)
	assert.Equal(t, "Germany", e.Winner.Name)
	assert.Equal(t, "Ecuador", e.RunnerUp.Name)
	assert.Equal(t, "Ivory Coast", e.Third.Name)
}

func TestDeriveThirdMatchesEffectiveOrder(t *testing.T) {
	reg := registry.Groups()
	g, _ := reg.Lookup('C')
	swapped := []bracket.Team{g.Teams[3], g.Teams[1], g.Teams[0], g.Teams[2]}

	testCases := []struct {
		name string
		ord  bracket.Ordering
	}{
		{name: "no custom orderings", ord: nil},
		{name: "one customized group", ord: bracket.Ordering{"Group C": swapped}},
		{name: "too short ordering falls back to registry", ord: bracket.Ordering{"Group C": swapped[:2]}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			placements := Derive(tc.ord, reg)
			for _, group := range reg {
				want := EffectiveOrder(tc.ord, group)[2]
				require.NotNil(t, placements[group.Name].Third)
				assert.Equal(t, want, *placements[group.Name].Third, group.Name)
			}
		})
	}

	assert.Equal(t, "Brazil", Derive(bracket.Ordering{"Group C": swapped}, reg)["Group C"].Third.Name)
	assert.Equal(t, "Scotland", Derive(bracket.Ordering{"Group C": swapped[:2]}, reg)["Group C"].Third.Name)
}

func TestShortGroupHasNoThird(t *testing.T) {
	reg := bracket.Registry{{Name: "Group A", Teams: []bracket.Team{{Name: "x"}, {Name: "y"}}}}

	p := Derive(nil, reg)["Group A"]
	assert.NotNil(t, p.Winner)
	assert.NotNil(t, p.RunnerUp)
	assert.Nil(t, p.Third)
	assert.Empty(t, ThirdPlaces(nil, reg))
	assert.False(t, Complete(nil, reg))
}

func TestThirdPlaces(t *testing.T) {
	reg := registry.Groups()
	thirds := ThirdPlaces(nil, reg)
	require.Len(t, thirds, 12)
	assert.Equal(t, bracket.ThirdPlaceQualifier{Team: reg[4].Teams[2], GroupName: "Group E"}, thirds[4])
}

func TestComplete(t *testing.T) {
	assert.True(t, Complete(nil, registry.Groups()))
	assert.False(t, Complete(nil, nil))
}
