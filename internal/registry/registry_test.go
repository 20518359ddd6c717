package registry

import (
	"testing"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupsIsValidDraw(t *testing.T) {
	reg := Groups()
	require.NoError(t, reg.Validate())

	e, ok := reg.Lookup('E')
	require.True(t, ok)
	assert.Equal(t, []string{"Germany", "Ecuador", "Ivory Coast", "Curaçao"}, names(e.Teams))
}

func TestGroupsReturnsCopy(t *testing.T) {
	reg := Groups()
	reg[0].Teams[0] = bracket.Team{Name: "Changed"}
	assert.Equal(t, "Mexico", Groups()[0].Teams[0].Name)
}

func TestSlotLayout(t *testing.T) {
	order := SlotOrder()
	require.Len(t, order, 16)

	// Every group winner and runner-up appears exactly once across slots and default opponents
	mapping := DefaultMapping()
	seen := map[string]int{}
	for _, s := range order {
		seen[s.String()]++
		if opp, ok := mapping[s]; ok {
			seen[opp.String()]++
		}
	}
	for l := byte(bracket.FirstGroupLetter); l <= bracket.LastGroupLetter; l++ {
		assert.Equal(t, 1, seen["1"+string(l)], "winner of group %c", l)
		assert.Equal(t, 1, seen["2"+string(l)], "runner-up of group %c", l)
	}

	// The slots without a default opponent are exactly the third-place columns
	var open []string
	for _, s := range order {
		if _, ok := mapping[s]; !ok {
			open = append(open, s.String())
		}
	}
	thirds := ThirdPlaceSlots()
	require.Len(t, thirds, 8)
	var cols []string
	for _, s := range thirds {
		cols = append(cols, s.String())
	}
	assert.ElementsMatch(t, cols, open)
}

func names(teams []bracket.Team) []string {
	out := make([]string, len(teams))
	for i, t := range teams {
		out[i] = t.Name
	}
	return out
}
