// Package registry holds the 2026 draw and the round-of-32 slot layout.
package registry

import "github.com/AdamBeresnev/wc-bracket/internal/bracket"

var groups = bracket.Registry{
	{Name: "Group A", Teams: []bracket.Team{
		{Name: "Mexico", Flag: "🇲🇽"},
		{Name: "South Korea", Flag: "🇰🇷"},
		{Name: "South Africa", Flag: "🇿🇦"},
		{Name: "PO-Spot (UEFA D)", IsPlayoff: true},
	}},
	{Name: "Group B", Teams: []bracket.Team{
		{Name: "Canada", Flag: "🇨🇦"},
		{Name: "Switzerland", Flag: "🇨🇭"},
		{Name: "Qatar", Flag: "🇶🇦"},
		{Name: "PO-Spot (UEFA A)", IsPlayoff: true},
	}},
	{Name: "Group C", Teams: []bracket.Team{
		{Name: "Brazil", Flag: "🇧🇷"},
		{Name: "Morocco", Flag: "🇲🇦"},
		{Name: "Scotland", Flag: "🏴󠁧󠁢󠁳󠁣󠁴󠁿"},
		{Name: "Haiti", Flag: "🇭🇹"},
	}},
	{Name: "Group D", Teams: []bracket.Team{
		{Name: "United States (USA)", Flag: "🇺🇸"},
		{Name: "Paraguay", Flag: "🇵🇾"},
		{Name: "Australia", Flag: "🇦🇺"},
		{Name: "PO-Spot (UEFA C)", IsPlayoff: true},
	}},
	{Name: "Group E", Teams: []bracket.Team{
		{Name: "Germany", Flag: "🇩🇪"},
		{Name: "Ecuador", Flag: "🇪🇨"},
		{Name: "Ivory Coast", Flag: "🇨🇮"},
		{Name: "Curaçao", Flag: "🇨🇼"},
	}},
	{Name: "Group F", Teams: []bracket.Team{
		{Name: "Netherlands", Flag: "🇳🇱"},
		{Name: "Japan", Flag: "🇯🇵"},
		{Name: "Tunisia", Flag: "🇹🇳"},
		{Name: "PO-Spot (UEFA B)", IsPlayoff: true},
	}},
	{Name: "Group G", Teams: []bracket.Team{
		{Name: "Belgium", Flag: "🇧🇪"},
		{Name: "Iran", Flag: "🇮🇷"},
		{Name: "Egypt", Flag: "🇪🇬"},
		{Name: "New Zealand", Flag: "🇳🇿"},
	}},
	{Name: "Group H", Teams: []bracket.Team{
		{Name: "Spain", Flag: "🇪🇸"},
		{Name: "Uruguay", Flag: "🇺🇾"},
		{Name: "Saudi Arabia", Flag: "🇸🇦"},
		{Name: "Cape Verde", Flag: "🇨🇻"},
	}},
	{Name: "Group I", Teams: []bracket.Team{
		{Name: "France", Flag: "🇫🇷"},
		{Name: "Senegal", Flag: "🇸🇳"},
		{Name: "Norway", Flag: "🇳🇴"},
		{Name: "PO-Spot (Inter-confederation)", IsPlayoff: true},
	}},
	{Name: "Group J", Teams: []bracket.Team{
		{Name: "Argentina", Flag: "🇦🇷"},
		{Name: "Austria", Flag: "🇦🇹"},
		{Name: "Algeria", Flag: "🇩🇿"},
		{Name: "Jordan", Flag: "🇯🇴"},
	}},
	{Name: "Group K", Teams: []bracket.Team{
		{Name: "Portugal", Flag: "🇵🇹"},
		{Name: "Colombia", Flag: "🇨🇴"},
		{Name: "Uzbekistan", Flag: "🇺🇿"},
		{Name: "PO-Spot (Playoff)", IsPlayoff: true},
	}},
	{Name: "Group L", Teams: []bracket.Team{
		{Name: "England", Flag: "🏴󠁧󠁢󠁥󠁮󠁧󠁿"},
		{Name: "Croatia", Flag: "🇭🇷"},
		{Name: "Panama", Flag: "🇵🇦"},
		{Name: "Ghana", Flag: "🇬🇭"},
	}},
}

// Groups returns a copy of the draw so callers can't mutate the shared table
func Groups() bracket.Registry {
	out := make(bracket.Registry, len(groups))
	for i, g := range groups {
		teams := make([]bracket.Team, len(g.Teams))
		copy(teams, g.Teams)
		out[i] = bracket.Group{Name: g.Name, Teams: teams}
	}
	return out
}

// Round of 32 in bracket order: fixtures 2i and 2i+1 meet in the round of 16,
// which reproduces the official path through to the final.
var slotOrder = []string{
	"1E", "1I", "2A", "1F",
	"2K", "1H", "1D", "1G",
	"1C", "2E", "1A", "1L",
	"1J", "2D", "1B", "1K",
}

// Fixed fixtures that do not depend on which third-placed teams qualify
var defaultMapping = map[string]string{
	"2A": "2B",
	"1F": "2C",
	"2K": "2L",
	"1H": "2J",
	"1C": "2F",
	"2E": "2I",
	"1J": "2H",
	"2D": "2G",
}

// Group winners that face a third-placed team. These are the combination table columns.
var thirdPlaceSlots = []string{"1A", "1B", "1D", "1E", "1G", "1I", "1K", "1L"}

func SlotOrder() []bracket.SlotToken {
	return mustParseAll(slotOrder)
}

func ThirdPlaceSlots() []bracket.SlotToken {
	return mustParseAll(thirdPlaceSlots)
}

func DefaultMapping() map[bracket.SlotToken]bracket.SlotToken {
	out := make(map[bracket.SlotToken]bracket.SlotToken, len(defaultMapping))
	for k, v := range defaultMapping {
		out[bracket.MustParseSlotToken(k)] = bracket.MustParseSlotToken(v)
	}
	return out
}

func mustParseAll(raw []string) []bracket.SlotToken {
	out := make([]bracket.SlotToken, len(raw))
	for i, s := range raw {
		out[i] = bracket.MustParseSlotToken(s)
	}
	return out
}
