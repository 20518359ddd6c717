package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	bracketBuilds    int
	lookups          map[bool]int
	picks            map[string]int
	invalidatedPicks int
	champions        int
}

func NewMock() *Mock {
	return &Mock{
		lookups: make(map[bool]int),
		picks:   make(map[string]int),
	}
}

func (m *Mock) IncBracketBuilds() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bracketBuilds++
}

func (m *Mock) IncCombinationLookups(matched bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups[matched]++
}

func (m *Mock) IncPicks(stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.picks[stage]++
}

func (m *Mock) AddInvalidatedPicks(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidatedPicks += n
}

func (m *Mock) IncChampions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.champions++
}

func (m *Mock) BracketBuilds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bracketBuilds
}

// Lookups returns how many combination lookups matched or missed
func (m *Mock) Lookups(matched bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookups[matched]
}

func (m *Mock) Picks(stage string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.picks[stage]
}

func (m *Mock) InvalidatedPicks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalidatedPicks
}

func (m *Mock) Champions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.champions
}
