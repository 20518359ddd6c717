package bracket

// Placeholder names shown while a bracket position is unresolved
const (
	TBD          = "TBD"
	WinnerPrefix = "Winner "
)

// Matchup is one resolved round-of-32 fixture. Rebuilding replaces the whole set.
type Matchup struct {
	Slot     SlotToken `json:"slot"`
	Winner   Team      `json:"winner"`
	Opponent Team      `json:"opponent"`
}

func (m Matchup) Teams() (Team, Team) {
	return m.Winner, m.Opponent
}
