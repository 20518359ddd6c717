// Package session is the per-user bracket flow: group orderings, the third-place
// ranking and the knockout picks, plus the rules that keep them consistent.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/AdamBeresnev/wc-bracket/internal/combination"
	"github.com/AdamBeresnev/wc-bracket/internal/knockout"
	"github.com/AdamBeresnev/wc-bracket/internal/metrics"
	"github.com/AdamBeresnev/wc-bracket/internal/ordering"
	"github.com/AdamBeresnev/wc-bracket/internal/registry"
	"github.com/AdamBeresnev/wc-bracket/internal/service"
	"github.com/AdamBeresnev/wc-bracket/internal/slot"
	"github.com/AdamBeresnev/wc-bracket/internal/standings"
)

// ErrIncomplete means the group stage is not finished: a group lacks a third
// place or the third-place ranking has not been confirmed.
var ErrIncomplete = errors.New("group stage incomplete")

type Metrics = metrics.Metrics

// Announcer is told once each time a final is decided
type Announcer interface {
	AnnounceChampion(team bracket.Team)
}

type Options struct {
	// SlotOrder and DefaultMapping default to the 2026 layout
	SlotOrder      []bracket.SlotToken
	DefaultMapping map[bracket.SlotToken]bracket.SlotToken
	Logger         bracket.Logger
	Metrics        Metrics
	Announcer      Announcer
}

type Session struct {
	registry       bracket.Registry
	table          *combination.Table
	slotOrder      []bracket.SlotToken
	defaultMapping map[bracket.SlotToken]bracket.SlotToken

	orderings *ordering.Store
	thirds    *ordering.ThirdPlaceRanking
	confirmed bool
	// storedMapping stands in for the table when the session was restored without one
	storedMapping map[bracket.SlotToken]bracket.SlotToken

	knockout *knockout.Bracket
	mapping  map[bracket.SlotToken]bracket.SlotToken
	// fingerprint is of the last round of 32 built, possibly by an earlier
	// session this one was restored from
	fingerprint string

	log       bracket.Logger
	metrics   Metrics
	announcer Announcer
}

// New starts an empty bracket flow. table may be nil when the combinations could not be loaded.
func New(reg bracket.Registry, table *combination.Table, opts Options) *Session {
	s := &Session{
		registry:       reg,
		table:          table,
		slotOrder:      opts.SlotOrder,
		defaultMapping: opts.DefaultMapping,
		log:            bracket.LoggerOrNop(opts.Logger),
		metrics:        opts.Metrics,
		announcer:      opts.Announcer,
	}
	if s.slotOrder == nil {
		s.slotOrder = registry.SlotOrder()
	}
	if s.defaultMapping == nil {
		s.defaultMapping = registry.DefaultMapping()
	}
	if s.metrics == nil {
		s.metrics = metrics.Nop()
	}
	s.orderings = ordering.NewStore(reg)
	s.Reset()
	return s
}

func (s *Session) Reset() {
	s.orderings.Reset()
	s.thirds = ordering.NewThirdPlaceRanking(standings.ThirdPlaces(nil, s.registry))
	s.confirmed = false
	s.storedMapping = nil
	s.knockout = nil
	s.mapping = nil
	s.fingerprint = ""
}

type GroupView struct {
	Name       string          `json:"name"`
	Items      []ordering.Item `json:"items"`
	Customized bool            `json:"customized"`
}

func (s *Session) Groups() []GroupView {
	views := make([]GroupView, 0, len(s.registry))
	for _, g := range s.registry {
		items, _ := s.orderings.Items(g.Name)
		views = append(views, GroupView{Name: g.Name, Items: items, Customized: s.orderings.Customized(g.Name)})
	}
	return views
}

// MoveTeam reorders a group and refreshes the third-place ranking entry for it
func (s *Session) MoveTeam(groupName, activeID, overID string) (bool, error) {
	changed, err := s.orderings.Move(groupName, activeID, overID)
	if err != nil || !changed {
		return changed, err
	}
	s.syncThirds()
	return true, nil
}

// SetGroupOrder replaces a group's order outright with the given item ids
func (s *Session) SetGroupOrder(groupName string, ids []string) error {
	if err := s.orderings.SetOrder(groupName, ids); err != nil {
		return err
	}
	s.syncThirds()
	return nil
}

func (s *Session) syncThirds() {
	if s.thirds.Sync(standings.ThirdPlaces(s.orderings.Ordering(), s.registry)) {
		s.log.Debug("third-place ranking refreshed after group reorder")
	}
}

func (s *Session) Standings() map[string]standings.Placement {
	return standings.Derive(s.orderings.Ordering(), s.registry)
}

func (s *Session) MoveThirdPlace(activeGroup, overGroup string) (bool, error) {
	return s.thirds.Move(activeGroup, overGroup)
}

type ThirdPlaceRow struct {
	Rank int `json:"rank"`
	bracket.ThirdPlaceQualifier
	Qualified bool `json:"qualified"`
}

// ThirdPlaceTable is the ranking as shown to the user, best first
func (s *Session) ThirdPlaceTable() []ThirdPlaceRow {
	entries := s.thirds.Entries()
	rows := make([]ThirdPlaceRow, len(entries))
	for i, e := range entries {
		rows[i] = ThirdPlaceRow{Rank: i + 1, ThirdPlaceQualifier: e, Qualified: i < ordering.QualifyingThirds}
	}
	return rows
}

func (s *Session) QualifiedLetters() []byte {
	return s.thirds.QualifiedLetters()
}

func (s *Session) MatchedRow() (*combination.Row, bool) {
	return s.table.Match(s.QualifiedLetters())
}

// ConfirmThirdPlaces accepts the current ranking and opens the knockout stage
func (s *Session) ConfirmThirdPlaces() error {
	if !standings.Complete(s.orderings.Ordering(), s.registry) {
		return fmt.Errorf("%w: a group has fewer than 3 teams", ErrIncomplete)
	}
	s.confirmed = true
	return nil
}

func (s *Session) Confirmed() bool { return s.confirmed }

func (s *Session) ready() error {
	if !standings.Complete(s.orderings.Ordering(), s.registry) {
		return fmt.Errorf("%w: a group has fewer than 3 teams", ErrIncomplete)
	}
	if !s.confirmed {
		return fmt.Errorf("%w: third places not confirmed", ErrIncomplete)
	}
	return nil
}

func (s *Session) RoundOf32() ([]bracket.Matchup, error) {
	b, err := s.bracket()
	if err != nil {
		return nil, err
	}
	return b.RoundOf32(), nil
}

func (s *Session) Pick(stage knockout.Stage, idx int, side knockout.Side) ([]knockout.Event, error) {
	b, err := s.bracket()
	if err != nil {
		return nil, err
	}
	events, err := b.Pick(stage, idx, side)
	if err != nil {
		return nil, err
	}
	s.dispatch(events)
	return events, nil
}

func (s *Session) dispatch(events []knockout.Event) {
	for _, e := range events {
		switch e.Type {
		case knockout.EvtPickRecorded:
			s.metrics.IncPicks(e.Stage.String())
		case knockout.EvtPicksCleared:
			s.log.Debug("later picks cleared", "stage", e.Stage.String(), "match", e.Match, "cleared", e.Cleared)
			s.metrics.AddInvalidatedPicks(e.Cleared)
		case knockout.EvtChampionDecided:
			s.metrics.IncChampions()
			if s.announcer != nil {
				s.announcer.AnnounceChampion(e.Team)
			}
		}
	}
}

func (s *Session) Stages() ([]knockout.StageView, error) {
	b, err := s.bracket()
	if err != nil {
		return nil, err
	}
	return b.Stages(), nil
}

func (s *Session) Champion() (bracket.Team, bool) {
	b, err := s.bracket()
	if err != nil {
		return bracket.Team{}, false
	}
	return b.Champion()
}

// bracket returns the knockout bracket for the current standings. When anything
// feeding the round of 32 changed since the last build, the round of 32 is built
// again and every pick is dropped.
func (s *Session) bracket() (*knockout.Bracket, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	row, source := s.mappingRow()
	fp, err := s.computeFingerprint(row, source)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}
	if s.knockout != nil && fp == s.fingerprint {
		return s.knockout, nil
	}
	rebuilt := fp != s.fingerprint

	ord := s.orderings.Ordering()
	r32 := service.BuildRoundOf32(service.BuildInput{
		SlotOrder:      s.slotOrder,
		DefaultMapping: s.defaultMapping,
		Row:            row,
		Resolver:       slot.Resolver{Registry: s.registry, Ordering: ord, ThirdPlaces: s.thirds.Entries()},
		Log:            s.log,
	})
	b, err := knockout.New(r32)
	if err != nil {
		return nil, err
	}

	if s.knockout != nil {
		if n := s.knockout.Picks().Count(); n > 0 {
			s.log.Debug("round of 32 changed, dropping picks", "picks", n)
			s.metrics.AddInvalidatedPicks(n)
		}
	}
	if rebuilt {
		s.metrics.IncBracketBuilds()
		if s.table != nil {
			s.metrics.IncCombinationLookups(source == sourceTable)
			if source != sourceTable {
				s.log.Warn("no combination matches the qualified third places", "letters", string(s.QualifiedLetters()))
			}
		}
	}

	s.knockout = b
	s.mapping = service.EffectiveMapping(s.defaultMapping, row)
	s.fingerprint = fp
	return b, nil
}

type mappingSource string

const (
	sourceTable   mappingSource = "table"
	sourceStored  mappingSource = "stored"
	sourceDefault mappingSource = "default"
)

// mappingRow picks where the third-place pairings come from: the loaded table,
// a mapping restored from a snapshot, or nothing.
func (s *Session) mappingRow() (*combination.Row, mappingSource) {
	if s.table != nil {
		row, ok := s.MatchedRow()
		if !ok {
			return nil, sourceDefault
		}
		return row, sourceTable
	}
	if len(s.storedMapping) > 0 {
		row := combination.NewRow(nil, s.storedMapping)
		return &row, sourceStored
	}
	return nil, sourceDefault
}

type fingerprintInput struct {
	Placements []standings.Placement
	Qualified  []bracket.ThirdPlaceQualifier
	Source     mappingSource
	Mapping    []string
}

func (s *Session) computeFingerprint(row *combination.Row, source mappingSource) (string, error) {
	derived := s.Standings()
	// rank order inside the qualifying set does not change any fixture
	qualified := s.thirds.Qualified()
	slices.SortFunc(qualified, func(a, b bracket.ThirdPlaceQualifier) int {
		return strings.Compare(a.GroupName, b.GroupName)
	})
	in := fingerprintInput{Source: source, Qualified: qualified}
	for _, g := range s.registry {
		in.Placements = append(in.Placements, derived[g.Name])
	}
	if row != nil {
		for _, col := range s.slotOrder {
			if v, ok := row.Mapping[col]; ok {
				in.Mapping = append(in.Mapping, col.String()+"="+v.String())
			}
		}
	}

	b, err := encode(in)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
