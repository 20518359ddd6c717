package bracket

import (
	"errors"
	"fmt"
)

const (
	FirstGroupLetter = 'A'
	LastGroupLetter  = 'L'
	GroupCount       = 12
	TeamsPerGroup    = 4
)

var ErrInvalidRegistry = errors.New("invalid group registry")

type Registry []Group

func (r Registry) ByName(name string) (Group, bool) {
	for _, g := range r {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

func (r Registry) Lookup(letter byte) (Group, bool) {
	for _, g := range r {
		if l, ok := g.Letter(); ok && l == letter {
			return g, true
		}
	}
	return Group{}, false
}

// Validate checks the fixed shape of the draw: 12 groups A-L with 4 teams each
func (r Registry) Validate() error {
	if len(r) != GroupCount {
		return fmt.Errorf("%w: expected %d groups, got %d", ErrInvalidRegistry, GroupCount, len(r))
	}

	seen := make(map[byte]bool, len(r))
	for _, g := range r {
		l, ok := g.Letter()
		if !ok {
			return fmt.Errorf("%w: group name %q has no letter A-L", ErrInvalidRegistry, g.Name)
		}
		if seen[l] {
			return fmt.Errorf("%w: duplicate group %s", ErrInvalidRegistry, g.Name)
		}
		seen[l] = true
		if len(g.Teams) != TeamsPerGroup {
			return fmt.Errorf("%w: %s has %d teams", ErrInvalidRegistry, g.Name, len(g.Teams))
		}
	}
	return nil
}
