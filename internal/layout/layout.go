// Package layout describes the keyboard layouts a player can practice.
package layout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLayout is returned by Parse for names that are not a known layout.
var ErrUnknownLayout = errors.New("unknown keyboard layout")

// Layout identifies a keyboard layout.
type Layout int

// The zero value is Dvorak so an unset Layout means the default.
const (
	Dvorak Layout = iota
	QWERTY
)

// Default is the layout a new game starts with.
const Default = Dvorak

// Home-row characters spawned for each layout.
const (
	qwertyLetters = "ASDFJKL;"
	dvorakLetters = "AOEUHTNS"
)

// All returns the selectable layouts in menu order.
func All() []Layout {
	return []Layout{QWERTY, Dvorak}
}

// Letters returns the characters falling letters are drawn from.
func (l Layout) Letters() string {
	if l == QWERTY {
		return qwertyLetters
	}
	return dvorakLetters
}

// String returns the lower-case identifier ("qwerty", "dvorak").
func (l Layout) String() string {
	switch l {
	case QWERTY:
		return "qwerty"
	case Dvorak:
		return "dvorak"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// Label returns the upper-case display name shown on the dropdown trigger.
func (l Layout) Label() string {
	return strings.ToUpper(l.String())
}

// Parse converts a case-insensitive name into a Layout.
func Parse(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "qwerty":
		return QWERTY, nil
	case "dvorak":
		return Dvorak, nil
	default:
		return Default, fmt.Errorf("%w: %q", ErrUnknownLayout, s)
	}
}

// MarshalText encodes the layout as its identifier (used in JSON frames).
func (l Layout) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a layout identifier.
func (l *Layout) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
