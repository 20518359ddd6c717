package ordering

import (
	"fmt"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/AdamBeresnev/wc-bracket/internal/utils"
)

// QualifyingThirds is how many third-placed teams reach the round of 32
const QualifyingThirds = 8

// ThirdPlaceRanking is the user's ranking of the third-placed teams. The top
// QualifyingThirds entries advance.
type ThirdPlaceRanking struct {
	entries []bracket.ThirdPlaceQualifier
}

func NewThirdPlaceRanking(thirds []bracket.ThirdPlaceQualifier) *ThirdPlaceRanking {
	return &ThirdPlaceRanking{entries: append([]bracket.ThirdPlaceQualifier(nil), thirds...)}
}

func (r *ThirdPlaceRanking) Entries() []bracket.ThirdPlaceQualifier {
	return append([]bracket.ThirdPlaceQualifier(nil), r.entries...)
}

// Move drops the active group's entry onto the over group's position
func (r *ThirdPlaceRanking) Move(activeGroup, overGroup string) (bool, error) {
	if activeGroup == overGroup {
		return false, nil
	}
	from, to := r.indexOf(activeGroup), r.indexOf(overGroup)
	if from < 0 {
		return false, fmt.Errorf("%w: %s", ErrUnknownGroup, activeGroup)
	}
	if to < 0 {
		return false, fmt.Errorf("%w: %s", ErrUnknownGroup, overGroup)
	}
	r.entries = utils.Move(r.entries, from, to)
	return true, nil
}

// Sync refreshes the ranking from freshly derived third places. A group keeps its
// rank but its team is replaced when the group standings changed; groups missing
// from the ranking are appended and groups no longer derived are dropped.
func (r *ThirdPlaceRanking) Sync(thirds []bracket.ThirdPlaceQualifier) bool {
	current := make(map[string]bracket.ThirdPlaceQualifier, len(thirds))
	for _, q := range thirds {
		current[q.GroupName] = q
	}

	changed := false
	synced := make([]bracket.ThirdPlaceQualifier, 0, len(thirds))
	placed := make(map[string]bool, len(thirds))
	for _, e := range r.entries {
		q, ok := current[e.GroupName]
		if !ok || placed[e.GroupName] {
			changed = true
			continue
		}
		if q.Team != e.Team {
			changed = true
		}
		synced = append(synced, q)
		placed[e.GroupName] = true
	}
	for _, q := range thirds {
		if !placed[q.GroupName] {
			synced = append(synced, q)
			changed = true
		}
	}

	r.entries = synced
	return changed
}

func (r *ThirdPlaceRanking) Qualified() []bracket.ThirdPlaceQualifier {
	n := min(QualifyingThirds, len(r.entries))
	return append([]bracket.ThirdPlaceQualifier(nil), r.entries[:n]...)
}

// QualifiedLetters returns the group letters of the qualifying third places in rank order
func (r *ThirdPlaceRanking) QualifiedLetters() []byte {
	var letters []byte
	for _, q := range r.Qualified() {
		if l, ok := bracket.LetterOf(q.GroupName); ok {
			letters = append(letters, l)
		}
	}
	return letters
}

func (r *ThirdPlaceRanking) indexOf(groupName string) int {
	for i, e := range r.entries {
		if e.GroupName == groupName {
			return i
		}
	}
	return -1
}
