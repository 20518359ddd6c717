package bracket

import (
	"errors"
	"fmt"
)

var ErrMalformedToken = errors.New("malformed slot token")

type Position int

const (
	Winner   Position = 1
	RunnerUp Position = 2
	Third    Position = 3
)

// SlotToken is a parsed "<position><group letter>" token such as 1A or 3E.
// The zero value is not a valid token; build one with ParseSlotToken.
type SlotToken struct {
	pos    Position
	letter byte
}

func ParseSlotToken(s string) (SlotToken, error) {
	if len(s) != 2 {
		return SlotToken{}, fmt.Errorf("%w: %q", ErrMalformedToken, s)
	}
	pos := Position(s[0] - '0')
	if pos < Winner || pos > Third || !IsGroupLetter(s[1]) {
		return SlotToken{}, fmt.Errorf("%w: %q", ErrMalformedToken, s)
	}
	return SlotToken{pos: pos, letter: s[1]}, nil
}

// MustParseSlotToken is for static tables only
func MustParseSlotToken(s string) SlotToken {
	t, err := ParseSlotToken(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t SlotToken) Position() Position { return t.pos }
func (t SlotToken) Letter() byte       { return t.letter }
func (t SlotToken) IsZero() bool       { return t.pos == 0 }
func (t SlotToken) GroupName() string  { return GroupName(t.letter) }

func (t SlotToken) String() string {
	if t.IsZero() {
		return ""
	}
	return string([]byte{byte('0' + t.pos), t.letter})
}

func (t SlotToken) MarshalText() ([]byte, error) {
	if t.IsZero() {
		return nil, fmt.Errorf("%w: zero token", ErrMalformedToken)
	}
	return []byte(t.String()), nil
}

func (t *SlotToken) UnmarshalText(b []byte) error {
	parsed, err := ParseSlotToken(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
