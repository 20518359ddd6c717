// Package knockout holds the picks made through the knockout rounds and derives
// each round's fixtures from the previous round's winners.
package knockout

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
)

var ErrInvalidRoundOf32 = errors.New("round of 32 must have 16 matchups")
var ErrMatchOutOfRange = errors.New("match index out of range")
var ErrMatchNotReady = errors.New("both teams of the match must be decided first")

type EventType string

const (
	EvtPickRecorded    EventType = "PickRecorded"
	EvtPicksCleared    EventType = "PicksCleared"
	EvtChampionDecided EventType = "ChampionDecided"
)

/*
	Pick -> EvtPickRecorded -> EvtPicksCleared (only if later picks existed) -> EvtChampionDecided (final only)
*/

type Event struct {
	Type  EventType    `json:"type"`
	Stage Stage        `json:"stage"`
	Match int          `json:"match"`
	Side  Side         `json:"side,omitempty"`
	Team  bracket.Team `json:"team,omitzero"`
	// Cleared is the number of picks dropped from later stages
	Cleared int `json:"cleared,omitempty"`
}

// Picks is the serializable record of picks, stage -> match index -> side
type Picks map[Stage]map[int]Side

// Count is the number of recorded picks over every stage
func (p Picks) Count() int {
	n := 0
	for _, m := range p {
		n += len(m)
	}
	return n
}

type Bracket struct {
	r32   []bracket.Matchup
	picks [stageCount]map[int]Side
}

func New(r32 []bracket.Matchup) (*Bracket, error) {
	if len(r32) != R32.Matches() {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidRoundOf32, len(r32))
	}
	b := &Bracket{r32: slices.Clone(r32)}
	b.Reset()
	return b, nil
}

func (b *Bracket) RoundOf32() []bracket.Matchup {
	return slices.Clone(b.r32)
}

// Pick records side as the winner of match idx in stage and clears every pick
// in the stages after it, since their fixtures may no longer hold.
func (b *Bracket) Pick(stage Stage, idx int, side Side) ([]Event, error) {
	if !stage.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStage, int(stage))
	}
	if idx < 0 || idx >= stage.Matches() {
		return nil, fmt.Errorf("%w: %s has %d matches, got %d", ErrMatchOutOfRange, stage, stage.Matches(), idx)
	}
	if _, err := ParseSide(string(side)); err != nil {
		return nil, err
	}

	left, right := b.teams(stage, idx)
	if !decided(left, right) {
		return nil, fmt.Errorf("%w: %s match %d", ErrMatchNotReady, stage, idx)
	}

	b.picks[stage][idx] = side
	chosen := *left
	if side == Right {
		chosen = *right
	}

	events := []Event{{Type: EvtPickRecorded, Stage: stage, Match: idx, Side: side, Team: chosen}}

	if cleared := b.clearAfter(stage); cleared > 0 {
		events = append(events, Event{Type: EvtPicksCleared, Stage: stage, Match: idx, Cleared: cleared})
	}

	if stage == Final {
		events = append(events, Event{Type: EvtChampionDecided, Stage: stage, Match: idx, Side: side, Team: chosen})
	}

	return events, nil
}

func (b *Bracket) clearAfter(stage Stage) int {
	cleared := 0
	for s := stage + 1; s <= Final; s++ {
		cleared += len(b.picks[s])
		clear(b.picks[s])
	}
	return cleared
}

// teams returns the two sides of a fixture, nil for a side whose feeder match has no pick yet
func (b *Bracket) teams(stage Stage, idx int) (*bracket.Team, *bracket.Team) {
	if stage == R32 {
		m := b.r32[idx]
		return &m.Winner, &m.Opponent
	}
	return b.winner(stage-1, 2*idx), b.winner(stage-1, 2*idx+1)
}

// decided reports whether both sides are known teams. Placeholders from the
// round of 32 cannot be picked.
func decided(left, right *bracket.Team) bool {
	return left != nil && right != nil && !left.Unresolved && !right.Unresolved
}

func (b *Bracket) winner(stage Stage, idx int) *bracket.Team {
	side, ok := b.picks[stage][idx]
	if !ok {
		return nil
	}
	left, right := b.teams(stage, idx)
	if side == Right {
		return right
	}
	return left
}

func (b *Bracket) Champion() (bracket.Team, bool) {
	w := b.winner(Final, 0)
	if w == nil {
		return bracket.Team{}, false
	}
	return *w, true
}

func (b *Bracket) Reset() {
	for i := range b.picks {
		b.picks[i] = make(map[int]Side)
	}
}

func (b *Bracket) Picks() Picks {
	out := make(Picks)
	for s, m := range b.picks {
		if len(m) > 0 {
			out[Stage(s)] = maps.Clone(m)
		}
	}
	return out
}

// RestorePicks replaces the current picks with p, stage by stage. Entries that
// point at a missing fixture, carry a bad side or sit on a match whose teams are
// not decided are dropped; the number dropped is returned.
func (b *Bracket) RestorePicks(p Picks) int {
	b.Reset()
	dropped := 0
	for s, m := range p {
		if !s.Valid() {
			dropped += len(m)
		}
	}

	for _, stage := range Stages() {
		m := p[stage]
		for _, idx := range slices.Sorted(maps.Keys(m)) {
			side := m[idx]
			if idx < 0 || idx >= stage.Matches() || (side != Left && side != Right) {
				dropped++
				continue
			}
			if !decided(b.teams(stage, idx)) {
				dropped++
				continue
			}
			b.picks[stage][idx] = side
		}
	}
	return dropped
}

type MatchView struct {
	Index  int           `json:"index"`
	Left   *bracket.Team `json:"left"`
	Right  *bracket.Team `json:"right"`
	Pick   Side          `json:"pick,omitempty"`
	Winner *bracket.Team `json:"winner"`
}

type StageView struct {
	Stage   Stage       `json:"stage"`
	Label   string      `json:"label"`
	Matches []MatchView `json:"matches"`
}

// Stages returns a copy of every stage's fixtures. Mutating it has no effect on the bracket.
func (b *Bracket) Stages() []StageView {
	views := make([]StageView, 0, stageCount)
	for _, stage := range Stages() {
		sv := StageView{Stage: stage, Label: stage.Label(), Matches: make([]MatchView, stage.Matches())}
		for i := range sv.Matches {
			left, right := b.teams(stage, i)
			sv.Matches[i] = MatchView{
				Index:  i,
				Left:   copyTeam(left),
				Right:  copyTeam(right),
				Pick:   b.picks[stage][i],
				Winner: copyTeam(b.winner(stage, i)),
			}
		}
		views = append(views, sv)
	}
	return views
}

func copyTeam(t *bracket.Team) *bracket.Team {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
