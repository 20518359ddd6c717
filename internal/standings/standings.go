// Package standings derives group winners, runners-up and third-placed teams
// from the user's orderings. Everything here is recomputed on demand.
package standings

import (
	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/AdamBeresnev/wc-bracket/internal/utils"
)

// minEntrants is how many ranked teams a group needs before it has a third place
const minEntrants = 3

type Placement struct {
	Winner   *bracket.Team `json:"winner"`
	RunnerUp *bracket.Team `json:"runnerUp"`
	Third    *bracket.Team `json:"third"`
}

// EffectiveOrder is the custom ordering when it has at least 3 entrants, otherwise the registry order
func EffectiveOrder(ord bracket.Ordering, g bracket.Group) []bracket.Team {
	if teams, ok := ord[g.Name]; ok && len(teams) >= minEntrants {
		return teams
	}
	return g.Teams
}

func Derive(ord bracket.Ordering, reg bracket.Registry) map[string]Placement {
	out := make(map[string]Placement, len(reg))
	for _, g := range reg {
		out[g.Name] = placementOf(EffectiveOrder(ord, g))
	}
	return out
}

func placementOf(order []bracket.Team) Placement {
	var p Placement
	if len(order) > 0 {
		p.Winner = utils.Ptr(order[0])
	}
	if len(order) > 1 {
		p.RunnerUp = utils.Ptr(order[1])
	}
	if len(order) > 2 {
		p.Third = utils.Ptr(order[2])
	}
	return p
}

// ThirdPlaces lists one qualifier per group, in registry order
func ThirdPlaces(ord bracket.Ordering, reg bracket.Registry) []bracket.ThirdPlaceQualifier {
	out := make([]bracket.ThirdPlaceQualifier, 0, len(reg))
	for _, g := range reg {
		order := EffectiveOrder(ord, g)
		if len(order) < minEntrants {
			continue
		}
		out = append(out, bracket.ThirdPlaceQualifier{Team: order[2], GroupName: g.Name})
	}
	return out
}

// Complete reports whether every group has enough ranked entrants to build a bracket
func Complete(ord bracket.Ordering, reg bracket.Registry) bool {
	if len(reg) == 0 {
		return false
	}
	for _, g := range reg {
		if len(EffectiveOrder(ord, g)) < minEntrants {
			return false
		}
	}
	return true
}
