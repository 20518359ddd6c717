package session

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/AdamBeresnev/wc-bracket/internal/knockout"
	"github.com/AdamBeresnev/wc-bracket/internal/ordering"
	"github.com/AdamBeresnev/wc-bracket/internal/standings"
	"github.com/vmihailenco/msgpack/v5"
)

// Keys the snapshot parts are stored under
const (
	KeyGroupOrderings      = "group_orderings"
	KeyThirdPlaceOrder     = "third_place_order"
	KeyThirdPlaceConfirmed = "third_place_confirmed"
	KeyRound32Mapping      = "round32_mapping"
	KeyRound32Fingerprint  = "round32_fingerprint"
	KeyKnockoutPicks       = "knockout_picks"
)

// Snapshot is the serializable state of a session. ThirdPlaceOrder is nil while
// the ranking follows registry order; the mapping, fingerprint and picks stay
// empty until the ranking is confirmed.
type Snapshot struct {
	GroupOrderings      map[string][]ordering.Item          `msgpack:"group_orderings" json:"groupOrderings"`
	ThirdPlaceOrder     []bracket.ThirdPlaceQualifier       `msgpack:"third_place_order" json:"thirdPlaceOrder"`
	ThirdPlaceConfirmed bool                                `msgpack:"third_place_confirmed" json:"thirdPlaceConfirmed"`
	Round32Mapping      map[string]string                   `msgpack:"round32_mapping" json:"round32Mapping"`
	Round32Fingerprint  string                              `msgpack:"round32_fingerprint" json:"round32Fingerprint"`
	KnockoutPicks       map[string]map[string]knockout.Side `msgpack:"knockout_picks" json:"knockoutPicks"`
}

type RestoreReport struct {
	RejectedGroups  []string `json:"rejectedGroups,omitempty"`
	RejectedMapping []string `json:"rejectedMapping,omitempty"`
	DroppedPicks    int      `json:"droppedPicks"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		GroupOrderings:      s.orderings.Snapshot(),
		ThirdPlaceConfirmed: s.confirmed,
	}
	entries := s.thirds.Entries()
	if !slices.Equal(entries, standings.ThirdPlaces(s.orderings.Ordering(), s.registry)) {
		snap.ThirdPlaceOrder = entries
	}
	// refresh first so stale picks are never written out
	if b, err := s.bracket(); err == nil {
		snap.Round32Mapping = make(map[string]string, len(s.mapping))
		for k, v := range s.mapping {
			snap.Round32Mapping[k.String()] = v.String()
		}
		snap.Round32Fingerprint = s.fingerprint
		if picks := b.Picks(); picks.Count() > 0 {
			snap.KnockoutPicks = encodePicks(picks)
		}
	}
	return snap
}

// Restore replaces the session state with snap. Whatever no longer fits the
// registry is left out and listed in the report.
func (s *Session) Restore(snap Snapshot) RestoreReport {
	s.Reset()
	var report RestoreReport

	report.RejectedGroups = s.orderings.Restore(snap.GroupOrderings)
	if len(report.RejectedGroups) > 0 {
		s.log.Warn("snapshot group orderings rejected", "groups", report.RejectedGroups)
	}

	if snap.ThirdPlaceOrder != nil {
		s.thirds = ordering.NewThirdPlaceRanking(snap.ThirdPlaceOrder)
	}
	s.thirds.Sync(standings.ThirdPlaces(s.orderings.Ordering(), s.registry))
	s.confirmed = snap.ThirdPlaceConfirmed
	// a matching fingerprint means the next build is the same round of 32 again
	s.fingerprint = snap.Round32Fingerprint

	if s.table == nil && len(snap.Round32Mapping) > 0 {
		s.storedMapping = make(map[bracket.SlotToken]bracket.SlotToken, len(snap.Round32Mapping))
		for k, v := range snap.Round32Mapping {
			from, errFrom := bracket.ParseSlotToken(k)
			to, errTo := bracket.ParseSlotToken(v)
			if errFrom != nil || errTo != nil {
				report.RejectedMapping = append(report.RejectedMapping, k)
				continue
			}
			s.storedMapping[from] = to
		}
	}

	if len(snap.KnockoutPicks) == 0 {
		return report
	}
	b, err := s.bracket()
	if err != nil {
		report.DroppedPicks = countPicks(snap.KnockoutPicks)
		s.log.Warn("snapshot picks dropped", "error", err)
		return report
	}
	picks, bad := decodePicks(snap.KnockoutPicks)
	report.DroppedPicks = bad + b.RestorePicks(picks)
	return report
}

// picks are keyed by strings so the encoded form does not depend on Go types
func encodePicks(p knockout.Picks) map[string]map[string]knockout.Side {
	out := make(map[string]map[string]knockout.Side, len(p))
	for stage, m := range p {
		inner := make(map[string]knockout.Side, len(m))
		for idx, side := range m {
			inner[strconv.Itoa(idx)] = side
		}
		out[stage.String()] = inner
	}
	return out
}

func decodePicks(raw map[string]map[string]knockout.Side) (knockout.Picks, int) {
	out := make(knockout.Picks, len(raw))
	bad := 0
	for key, m := range raw {
		stage, err := knockout.ParseStage(key)
		if err != nil {
			bad += len(m)
			continue
		}
		inner := make(map[int]knockout.Side, len(m))
		for k, side := range m {
			idx, err := strconv.Atoi(k)
			if err != nil {
				bad++
				continue
			}
			inner[idx] = side
		}
		out[stage] = inner
	}
	return out, bad
}

func countPicks(raw map[string]map[string]knockout.Side) int {
	n := 0
	for _, m := range raw {
		n += len(m)
	}
	return n
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeSnapshot serializes a whole snapshot as one msgpack blob
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	b, err := encode(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

func DecodeSnapshot(b []byte) (Snapshot, error) {
	var snap Snapshot
	if err := msgpack.Unmarshal(b, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// KV is the key-value store snapshot parts are persisted in
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, value []byte)
	Remove(ctx context.Context, key string)
}

// Save writes each snapshot part under its own key. Empty parts are removed.
func Save(ctx context.Context, kv KV, s *Session) error {
	snap := s.Snapshot()
	parts := []struct {
		key   string
		value any
		empty bool
	}{
		{KeyGroupOrderings, snap.GroupOrderings, len(snap.GroupOrderings) == 0},
		{KeyThirdPlaceOrder, snap.ThirdPlaceOrder, snap.ThirdPlaceOrder == nil},
		{KeyThirdPlaceConfirmed, snap.ThirdPlaceConfirmed, !snap.ThirdPlaceConfirmed},
		{KeyRound32Mapping, snap.Round32Mapping, len(snap.Round32Mapping) == 0},
		{KeyRound32Fingerprint, snap.Round32Fingerprint, snap.Round32Fingerprint == ""},
		{KeyKnockoutPicks, snap.KnockoutPicks, len(snap.KnockoutPicks) == 0},
	}
	for _, p := range parts {
		if p.empty {
			kv.Remove(ctx, p.key)
			continue
		}
		b, err := encode(p.value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", p.key, err)
		}
		kv.Put(ctx, p.key, b)
	}
	return nil
}

// Load restores s from whatever parts kv holds. A missing part is treated as empty.
func Load(ctx context.Context, kv KV, s *Session) (RestoreReport, error) {
	var snap Snapshot
	parts := []struct {
		key    string
		target any
	}{
		{KeyGroupOrderings, &snap.GroupOrderings},
		{KeyThirdPlaceOrder, &snap.ThirdPlaceOrder},
		{KeyThirdPlaceConfirmed, &snap.ThirdPlaceConfirmed},
		{KeyRound32Mapping, &snap.Round32Mapping},
		{KeyRound32Fingerprint, &snap.Round32Fingerprint},
		{KeyKnockoutPicks, &snap.KnockoutPicks},
	}
	for _, p := range parts {
		b, ok := kv.Get(ctx, p.key)
		if !ok {
			continue
		}
		if err := msgpack.Unmarshal(b, p.target); err != nil {
			return RestoreReport{}, fmt.Errorf("decode %s: %w", p.key, err)
		}
	}
	return s.Restore(snap), nil
}
