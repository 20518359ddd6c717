package service

import (
	"testing"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/AdamBeresnev/wc-bracket/internal/combination"
	"github.com/AdamBeresnev/wc-bracket/internal/registry"
	"github.com/AdamBeresnev/wc-bracket/internal/slot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tok(s string) bracket.SlotToken { return bracket.MustParseSlotToken(s) }

func matchedRow(t *testing.T, letters string) *combination.Row {
	t.Helper()
	table, err := combination.Load("../../static/group_combinations.csv", registry.ThirdPlaceSlots())
	require.NoError(t, err)
	row, ok := table.Match([]byte(letters))
	require.True(t, ok)
	return row
}

func defaultInput(row *combination.Row) BuildInput {
	return BuildInput{
		SlotOrder:      registry.SlotOrder(),
		DefaultMapping: registry.DefaultMapping(),
		Row:            row,
		Resolver:       slot.Resolver{Registry: registry.Groups()},
	}
}

func findMatchup(matchups []bracket.Matchup, slotToken string) bracket.Matchup {
	for _, m := range matchups {
		if m.Slot.String() == slotToken {
			return m
		}
	}
	return bracket.Matchup{}
}

func TestBuildRoundOf32WithMatchedRow(t *testing.T) {
	matchups := BuildRoundOf32(defaultInput(matchedRow(t, "ABCDEFGH")))
	require.Len(t, matchups, 16)

	// Row 1 of the shipped table: 1A v 3C, 1E v 3F
	a := findMatchup(matchups, "1A")
	assert.Equal(t, "Mexico", a.Winner.Name)
	assert.Equal(t, "Scotland", a.Opponent.Name)

	e := findMatchup(matchups, "1E")
	assert.Equal(t, "Germany", e.Winner.Name)
	assert.Equal(t, "Tunisia", e.Opponent.Name)

	// Fixed runner-up fixture
	ab := findMatchup(matchups, "2A")
	assert.Equal(t, "South Korea", ab.Winner.Name)
	assert.Equal(t, "Switzerland", ab.Opponent.Name)

	for _, m := range matchups {
		assert.NotEqual(t, bracket.TBD, m.Opponent.Name, m.Slot.String())
	}
}

func TestBuildRoundOf32IsIdempotent(t *testing.T) {
	in := defaultInput(matchedRow(t, "CDEFGHIJ"))
	first := BuildRoundOf32(in)
	second := BuildRoundOf32(in)
	assert.Equal(t, first, second)
}

func TestBuildRoundOf32WithoutRow(t *testing.T) {
	matchups := BuildRoundOf32(defaultInput(nil))
	require.Len(t, matchups, 16)

	thirdSlots := map[string]bool{}
	for _, s := range registry.ThirdPlaceSlots() {
		thirdSlots[s.String()] = true
	}
	for _, m := range matchups {
		if thirdSlots[m.Slot.String()] {
			assert.Equal(t, bracket.TBD, m.Opponent.Name, m.Slot.String())
		} else {
			assert.NotEqual(t, bracket.TBD, m.Opponent.Name, m.Slot.String())
		}
	}
}

func TestBuildRoundOf32Placeholders(t *testing.T) {
	var logged []string
	in := BuildInput{
		SlotOrder:      []bracket.SlotToken{tok("1A"), tok("1B"), tok("2C")},
		DefaultMapping: map[bracket.SlotToken]bracket.SlotToken{tok("1A"): tok("3B")},
		Resolver: slot.Resolver{Registry: bracket.Registry{
			{Name: "Group A", Teams: []bracket.Team{{Name: "Alpha"}}},
			{Name: "Group B", Teams: []bracket.Team{{Name: "Bravo"}, {Name: "Bravo 2"}}},
		}},
		Log: recordingLogger{lines: &logged},
	}

	matchups := BuildRoundOf32(in)
	require.Len(t, matchups, 3)

	assert.Equal(t, "Alpha", matchups[0].Winner.Name)
	assert.Equal(t, "3B", matchups[0].Opponent.Name, "mapped but unresolvable opponent shows its token")
	assert.Equal(t, "Bravo", matchups[1].Winner.Name)
	assert.Equal(t, bracket.TBD, matchups[1].Opponent.Name)
	assert.Equal(t, "Winner C", matchups[2].Winner.Name)
	assert.NotEmpty(t, logged)

	assert.False(t, matchups[0].Winner.Unresolved)
	assert.True(t, matchups[0].Opponent.Unresolved)
	assert.True(t, matchups[1].Opponent.Unresolved)
	assert.True(t, matchups[2].Winner.Unresolved)
}

func TestEffectiveMapping(t *testing.T) {
	defaults := map[bracket.SlotToken]bracket.SlotToken{tok("1A"): tok("3A"), tok("2A"): tok("2B")}
	row := combination.NewRow(nil, map[bracket.SlotToken]bracket.SlotToken{tok("1A"): tok("3C")})

	mapping := EffectiveMapping(defaults, &row)
	assert.Equal(t, tok("3C"), mapping[tok("1A")])
	assert.Equal(t, tok("2B"), mapping[tok("2A")])
	assert.Equal(t, tok("3A"), defaults[tok("1A")], "defaults stay untouched")
}

type recordingLogger struct {
	lines *[]string
}

func (l recordingLogger) Debug(msg string, args ...any) { *l.lines = append(*l.lines, "debug: "+msg) }
func (l recordingLogger) Warn(msg string, args ...any)  { *l.lines = append(*l.lines, "warn: "+msg) }
