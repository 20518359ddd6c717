package service

import (
	"maps"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/AdamBeresnev/wc-bracket/internal/combination"
	"github.com/AdamBeresnev/wc-bracket/internal/slot"
)

type BuildInput struct {
	SlotOrder      []bracket.SlotToken
	DefaultMapping map[bracket.SlotToken]bracket.SlotToken
	// Row is the matched combination for the qualifying third places, nil when none matched
	Row      *combination.Row
	Resolver slot.Resolver
	Log      bracket.Logger
}

// EffectiveMapping is the default mapping overridden key by key by the matched row
func EffectiveMapping(defaults map[bracket.SlotToken]bracket.SlotToken, row *combination.Row) map[bracket.SlotToken]bracket.SlotToken {
	mapping := make(map[bracket.SlotToken]bracket.SlotToken, len(defaults)+combination.QualifierCount)
	maps.Copy(mapping, defaults)
	if row != nil {
		maps.Copy(mapping, row.Mapping)
	}
	return mapping
}

// BuildRoundOf32 resolves every slot into a fixture. It always builds the full
// list from scratch: same inputs, same output.
func BuildRoundOf32(in BuildInput) []bracket.Matchup {
	log := bracket.LoggerOrNop(in.Log)
	mapping := EffectiveMapping(in.DefaultMapping, in.Row)

	matchups := make([]bracket.Matchup, 0, len(in.SlotOrder))
	for _, s := range in.SlotOrder {
		winner, err := in.Resolver.ResolveToken(s)
		if err != nil {
			log.Debug("slot unresolved, using placeholder", "slot", s.String(), "error", err)
			winner = bracket.Placeholder(bracket.WinnerPrefix + string(s.Letter()))
		}

		opponent := bracket.Placeholder(bracket.TBD)
		if target, ok := mapping[s]; ok {
			team, err := in.Resolver.ResolveToken(target)
			if err != nil {
				log.Debug("opponent unresolved, using token", "slot", s.String(), "opponent", target.String(), "error", err)
				team = bracket.Placeholder(target.String())
			}
			opponent = team
		} else {
			log.Debug("no opponent mapping for slot", "slot", s.String())
		}

		matchups = append(matchups, bracket.Matchup{Slot: s, Winner: winner, Opponent: opponent})
	}

	return matchups
}
