package views

import (
	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/AdamBeresnev/wc-bracket/internal/knockout"
	"github.com/AdamBeresnev/wc-bracket/internal/session"
	"github.com/AdamBeresnev/wc-bracket/internal/standings"
)

type GroupData struct {
	Name       string              `json:"name"`
	Teams      []GroupTeam         `json:"teams"`
	Placement  standings.Placement `json:"placement"`
	Customized bool                `json:"customized"`
}

type GroupTeam struct {
	ID       string       `json:"id"`
	Position int          `json:"position"`
	Team     bracket.Team `json:"team"`
}

type GroupStageData struct {
	Groups    []GroupData             `json:"groups"`
	Confirmed bool                    `json:"confirmed"`
	Thirds    []session.ThirdPlaceRow `json:"thirdPlaces"`
}

func PrepareGroupData(s *session.Session) GroupStageData {
	placements := s.Standings()
	groups := s.Groups()

	data := GroupStageData{
		Groups:    make([]GroupData, 0, len(groups)),
		Confirmed: s.Confirmed(),
		Thirds:    s.ThirdPlaceTable(),
	}
	for _, g := range groups {
		teams := make([]GroupTeam, len(g.Items))
		for i, it := range g.Items {
			teams[i] = GroupTeam{ID: it.ID, Position: i + 1, Team: it.Team}
		}
		data.Groups = append(data.Groups, GroupData{
			Name:       g.Name,
			Teams:      teams,
			Placement:  placements[g.Name],
			Customized: g.Customized,
		})
	}
	return data
}

type ThirdPlaceData struct {
	Rows        []session.ThirdPlaceRow `json:"rows"`
	Qualified   string                  `json:"qualifiedGroups"`
	Combination *string                 `json:"combination"`
	Matched     bool                    `json:"matched"`
	Confirmed   bool                    `json:"confirmed"`
}

func PrepareThirdPlaceData(s *session.Session) ThirdPlaceData {
	data := ThirdPlaceData{
		Rows:      s.ThirdPlaceTable(),
		Qualified: string(s.QualifiedLetters()),
		Confirmed: s.Confirmed(),
	}
	if row, ok := s.MatchedRow(); ok {
		data.Matched = true
		data.Combination = row.Option
	}
	return data
}

// KnockoutData lays the bracket out the way it is drawn: the first half of every
// stage on the left, the second half on the right and the final in the middle.
type KnockoutData struct {
	Left     []StageColumn      `json:"left"`
	Right    []StageColumn      `json:"right"`
	Final    knockout.MatchView `json:"final"`
	Champion *bracket.Team      `json:"champion"`
}

type StageColumn struct {
	Stage   knockout.Stage       `json:"stage"`
	Label   string               `json:"label"`
	Matches []knockout.MatchView `json:"matches"`
}

func PrepareKnockoutData(stages []knockout.StageView, champion *bracket.Team) KnockoutData {
	data := KnockoutData{Champion: champion}

	for _, st := range stages {
		if st.Stage == knockout.Final {
			if len(st.Matches) > 0 {
				data.Final = st.Matches[0]
			}
			continue
		}
		half := len(st.Matches) / 2
		data.Left = append(data.Left, StageColumn{Stage: st.Stage, Label: st.Label, Matches: st.Matches[:half]})
		data.Right = append(data.Right, StageColumn{Stage: st.Stage, Label: st.Label, Matches: st.Matches[half:]})
	}

	return data
}
