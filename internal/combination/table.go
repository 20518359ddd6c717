// Package combination matches the set of qualifying third-placed groups against
// the precomputed table of round-of-32 pairings.
package combination

import (
	"slices"
	"strings"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
)

// QualifierCount is the number of third-placed groups in every table row
const QualifierCount = 8

// Row is one qualification scenario: group-winner slot -> third-place opponent
type Row struct {
	Option  *string
	Mapping map[bracket.SlotToken]bracket.SlotToken
	key     string
}

// Key is the sorted, comma-joined list of the row's opponent tokens
func (r Row) Key() string {
	if r.key != "" {
		return r.key
	}
	return rowKey(r.Mapping)
}

// RowError records a data row that was rejected while loading
type RowError struct {
	Line   int
	Reason string
}

type Table struct {
	Columns  []bracket.SlotToken
	Rows     []Row
	Rejected []RowError
}

func NewRow(option *string, mapping map[bracket.SlotToken]bracket.SlotToken) Row {
	return Row{Option: option, Mapping: mapping, key: rowKey(mapping)}
}

func rowKey(mapping map[bracket.SlotToken]bracket.SlotToken) string {
	values := make([]string, 0, len(mapping))
	for _, v := range mapping {
		values = append(values, v.String())
	}
	slices.Sort(values)
	return strings.Join(values, ",")
}

// CandidateKey builds the lookup key for a set of qualifying group letters.
// Anything other than 8 distinct letters A-L has no key.
func CandidateKey(letters []byte) (string, bool) {
	if len(letters) != QualifierCount {
		return "", false
	}
	seen := make(map[byte]bool, len(letters))
	tokens := make([]string, 0, len(letters))
	for _, l := range letters {
		if !bracket.IsGroupLetter(l) || seen[l] {
			return "", false
		}
		seen[l] = true
		tokens = append(tokens, "3"+string(l))
	}
	slices.Sort(tokens)
	return strings.Join(tokens, ","), true
}

// Match returns the first row whose opponent tokens are exactly the qualifying
// third places. Order of the letters does not matter. A nil table never matches.
func (t *Table) Match(letters []byte) (*Row, bool) {
	if t == nil {
		return nil, false
	}
	key, ok := CandidateKey(letters)
	if !ok {
		return nil, false
	}
	for i := range t.Rows {
		if t.Rows[i].Key() == key {
			return &t.Rows[i], true
		}
	}
	return nil, false
}

// Duplicates lists keys that more than one row shares, with their row indexes.
// Match always takes the first of them.
func (t *Table) Duplicates() map[string][]int {
	out := make(map[string][]int)
	if t == nil {
		return out
	}
	byKey := make(map[string][]int, len(t.Rows))
	for i, r := range t.Rows {
		byKey[r.Key()] = append(byKey[r.Key()], i)
	}
	for k, idx := range byKey {
		if len(idx) > 1 {
			out[k] = idx
		}
	}
	return out
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
