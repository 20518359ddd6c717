// Package ordering holds the user's manual re-ranking of each group and of the
// third-placed teams.
package ordering

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/AdamBeresnev/wc-bracket/internal/utils"
	"github.com/google/uuid"
)

var (
	ErrUnknownGroup   = errors.New("unknown group")
	ErrUnknownItem    = errors.New("unknown item")
	ErrNotPermutation = errors.New("ordering is not a permutation of the group")
)

var itemNamespace = uuid.MustParse("6f1c1d4e-2b1a-4f5e-9c3d-2026a0b1c2d3")

// Item pairs a team with an id that survives reordering, so two teams sharing a
// name can still be told apart.
type Item struct {
	ID   string       `json:"id" msgpack:"id"`
	Team bracket.Team `json:"team" msgpack:"team"`
}

func ItemID(groupName string, registryIndex int) string {
	return uuid.NewSHA1(itemNamespace, []byte(groupName+"-"+strconv.Itoa(registryIndex))).String()
}

type Store struct {
	registry bracket.Registry
	groups   map[string][]Item
}

func NewStore(reg bracket.Registry) *Store {
	return &Store{registry: reg, groups: make(map[string][]Item)}
}

func defaultItems(g bracket.Group) []Item {
	items := make([]Item, len(g.Teams))
	for i, t := range g.Teams {
		items[i] = Item{ID: ItemID(g.Name, i), Team: t}
	}
	return items
}

// Items returns the effective order of a group, falling back to the registry order
func (s *Store) Items(groupName string) ([]Item, error) {
	g, ok := s.registry.ByName(groupName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGroup, groupName)
	}
	if items, ok := s.groups[groupName]; ok {
		return append([]Item(nil), items...), nil
	}
	return defaultItems(g), nil
}

func (s *Store) Customized(groupName string) bool {
	_, ok := s.groups[groupName]
	return ok
}

// Move drops the active item onto the position of the over item. Reports whether anything changed.
func (s *Store) Move(groupName, activeID, overID string) (bool, error) {
	items, err := s.Items(groupName)
	if err != nil {
		return false, err
	}
	if activeID == overID {
		return false, nil
	}

	from, to := indexOf(items, activeID), indexOf(items, overID)
	if from < 0 {
		return false, fmt.Errorf("%w: %s in %s", ErrUnknownItem, activeID, groupName)
	}
	if to < 0 {
		return false, fmt.Errorf("%w: %s in %s", ErrUnknownItem, overID, groupName)
	}

	s.groups[groupName] = utils.Move(items, from, to)
	return true, nil
}

// SetOrder replaces a group's order with the given ids
func (s *Store) SetOrder(groupName string, ids []string) error {
	g, ok := s.registry.ByName(groupName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGroup, groupName)
	}

	byID := make(map[string]Item, len(g.Teams))
	for _, it := range defaultItems(g) {
		byID[it.ID] = it
	}

	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotPermutation, groupName)
		}
		delete(byID, id)
		items = append(items, it)
	}
	if len(byID) != 0 {
		return fmt.Errorf("%w: %s", ErrNotPermutation, groupName)
	}

	s.groups[groupName] = items
	return nil
}

// Ordering exposes the customized groups as plain teams for the deriver
func (s *Store) Ordering() bracket.Ordering {
	ord := make(bracket.Ordering, len(s.groups))
	for name, items := range s.groups {
		teams := make([]bracket.Team, len(items))
		for i, it := range items {
			teams[i] = it.Team
		}
		ord[name] = teams
	}
	return ord
}

func (s *Store) Reset() {
	clear(s.groups)
}

func (s *Store) Snapshot() map[string][]Item {
	out := make(map[string][]Item, len(s.groups))
	for name, items := range s.groups {
		out[name] = append([]Item(nil), items...)
	}
	return out
}

// Restore loads a snapshot. Groups that are not a permutation of the registry
// group are skipped and returned so the caller can report them.
func (s *Store) Restore(snap map[string][]Item) []string {
	clear(s.groups)

	var rejected []string
	for name, items := range snap {
		g, ok := s.registry.ByName(name)
		if !ok || !isPermutation(g, items) {
			rejected = append(rejected, name)
			continue
		}
		s.groups[name] = append([]Item(nil), items...)
	}
	return rejected
}

func isPermutation(g bracket.Group, items []Item) bool {
	if len(items) != len(g.Teams) {
		return false
	}
	expected := make(map[string]bracket.Team, len(g.Teams))
	for _, it := range defaultItems(g) {
		expected[it.ID] = it.Team
	}
	for _, it := range items {
		team, ok := expected[it.ID]
		if !ok || team != it.Team {
			return false
		}
		delete(expected, it.ID)
	}
	return true
}

func indexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
