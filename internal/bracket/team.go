package bracket

import "strings"

type Team struct {
	Name      string `json:"name" msgpack:"name"`
	Flag      string `json:"flag,omitempty" msgpack:"flag,omitempty"`
	IsPlayoff bool   `json:"isPlayoff,omitempty" msgpack:"is_playoff,omitempty"`
	// Unresolved marks a stand-in such as TBD or "Winner A"
	Unresolved bool `json:"unresolved,omitempty" msgpack:"unresolved,omitempty"`
}

// Placeholder teams fill bracket positions that cannot be resolved yet
func Placeholder(name string) Team {
	return Team{Name: name, Unresolved: true}
}

type Group struct {
	Name  string `json:"name"`
	Teams []Team `json:"teams"`
}

// Letter returns the trailing group letter of names like "Group E"
func (g Group) Letter() (byte, bool) {
	return LetterOf(g.Name)
}

func LetterOf(groupName string) (byte, bool) {
	name := strings.TrimSpace(groupName)
	if name == "" {
		return 0, false
	}
	l := name[len(name)-1]
	if !IsGroupLetter(l) {
		return 0, false
	}
	return l, true
}

func GroupName(letter byte) string {
	return "Group " + string(letter)
}

func IsGroupLetter(l byte) bool {
	return l >= FirstGroupLetter && l <= LastGroupLetter
}

// ThirdPlaceQualifier is derived from the orderings, never stored on its own
type ThirdPlaceQualifier struct {
	Team      Team   `json:"team" msgpack:"team"`
	GroupName string `json:"groupName" msgpack:"group_name"`
}

// Ordering maps a group name to the user's order of that group's teams.
// A group missing from the map uses the registry order.
type Ordering map[string][]Team
