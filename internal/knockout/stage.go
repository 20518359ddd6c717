package knockout

import (
	"errors"
	"fmt"
)

var ErrUnknownStage = errors.New("unknown stage")
var ErrInvalidSide = errors.New("side must be left or right")

type Stage int

const (
	R32 Stage = iota
	R16
	QF
	SF
	Final
)

const stageCount = int(Final) + 1

var stageInfo = [stageCount]struct {
	key     string
	label   string
	matches int
}{
	{"r32", "Round of 32", 16},
	{"r16", "Round of 16", 8},
	{"qf", "Quarter-finals", 4},
	{"sf", "Semi-finals", 2},
	{"final", "Final", 1},
}

func Stages() []Stage {
	return []Stage{R32, R16, QF, SF, Final}
}

func ParseStage(s string) (Stage, error) {
	for i, info := range stageInfo {
		if info.key == s {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStage, s)
}

func (s Stage) Valid() bool { return s >= R32 && s <= Final }

func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageInfo[s].key
}

// Label is the display name, e.g. "Quarter-finals"
func (s Stage) Label() string {
	if !s.Valid() {
		return s.String()
	}
	return stageInfo[s].label
}

// Matches is how many fixtures the stage holds
func (s Stage) Matches() int {
	if !s.Valid() {
		return 0
	}
	return stageInfo[s].matches
}

func (s Stage) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStage, int(s))
	}
	return []byte(stageInfo[s].key), nil
}

func (s *Stage) UnmarshalText(b []byte) error {
	parsed, err := ParseStage(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Side names the team in a fixture that was picked to advance
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Left, Right:
		return Side(s), nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidSide, s)
}
