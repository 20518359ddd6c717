// Package slot resolves slot tokens like 1A or 3E to the team currently in that position.
package slot

import (
	"errors"
	"fmt"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/AdamBeresnev/wc-bracket/internal/standings"
)

var ErrUnresolvedReference = errors.New("no team for slot")

// Resolver reads the current standings. ThirdPlaces is the live third-place list
// shown to the user; when it has an entry for a group it wins over the derived third.
type Resolver struct {
	Registry    bracket.Registry
	Ordering    bracket.Ordering
	ThirdPlaces []bracket.ThirdPlaceQualifier
}

// Resolve parses and resolves a raw token. Malformed input is reported with
// bracket.ErrMalformedToken, never guessed.
func (r Resolver) Resolve(raw string) (bracket.Team, error) {
	tok, err := bracket.ParseSlotToken(raw)
	if err != nil {
		return bracket.Team{}, err
	}
	return r.ResolveToken(tok)
}

func (r Resolver) ResolveToken(tok bracket.SlotToken) (bracket.Team, error) {
	if tok.IsZero() {
		return bracket.Team{}, bracket.ErrMalformedToken
	}

	if tok.Position() == bracket.Third {
		if q, ok := r.override(tok.Letter()); ok {
			return q.Team, nil
		}
	}

	g, ok := r.Registry.Lookup(tok.Letter())
	if !ok {
		return bracket.Team{}, fmt.Errorf("%w %s: group missing from registry", ErrUnresolvedReference, tok)
	}
	order := standings.EffectiveOrder(r.Ordering, g)
	idx := int(tok.Position()) - 1
	if idx >= len(order) {
		return bracket.Team{}, fmt.Errorf("%w %s: %s has %d entrants", ErrUnresolvedReference, tok, g.Name, len(order))
	}
	return order[idx], nil
}

func (r Resolver) override(letter byte) (bracket.ThirdPlaceQualifier, bool) {
	for _, q := range r.ThirdPlaces {
		if l, ok := bracket.LetterOf(q.GroupName); ok && l == letter {
			return q, true
		}
	}
	return bracket.ThirdPlaceQualifier{}, false
}
