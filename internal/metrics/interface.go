package metrics

// Metrics is what the bracket session reports. Keeping it an interface lets
// tests and the CLI run without a Prometheus registry.
type Metrics interface {
	IncBracketBuilds()
	IncCombinationLookups(matched bool)
	IncPicks(stage string)
	AddInvalidatedPicks(n int)
	IncChampions()
}

type nop struct{}

func (nop) IncBracketBuilds()          {}
func (nop) IncCombinationLookups(bool) {}
func (nop) IncPicks(string)            {}
func (nop) AddInvalidatedPicks(int)    {}
func (nop) IncChampions()              {}

func Nop() Metrics { return nop{} }
