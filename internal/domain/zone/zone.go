package zone

import (
	"errors"
	"fmt"
	"strings"
)

// Zone is a coarse time-of-day bucket that constrains which hours can be entered.
type Zone int

const (
	// Unset means no zone is selected yet; no input is accepted.
	Unset Zone = iota
	// Morning covers hours 4 through 10.
	Morning
	// Noon covers hours 11 through 17.
	Noon
	// Night covers hours 18 through 23.
	Night
	// Midnight covers hours 0 through 3.
	Midnight
)

// Bound is an inclusive hour range.
type Bound struct {
	// First is the earliest hour of the range.
	First int
	// Last is the latest hour of the range.
	Last int
}

// Contains reports whether hour lies within the bound.
func (b Bound) Contains(hour int) bool {
	return hour >= b.First && hour <= b.Last
}

// String renders the bound as "first-last".
func (b Bound) String() string {
	return fmt.Sprintf("%d-%d", b.First, b.Last)
}

// ErrUnknownZone is returned by Parse for names that do not denote a zone.
var ErrUnknownZone = errors.New("unknown zone")

//nolint:gochecknoglobals // Fixed lookup tables.
var (
	bounds = map[Zone]Bound{
		Morning:  {First: 4, Last: 10},
		Noon:     {First: 11, Last: 17},
		Night:    {First: 18, Last: 23},
		Midnight: {First: 0, Last: 3},
	}

	names = map[Zone]string{
		Unset:    "unset",
		Morning:  "morning",
		Noon:     "noon",
		Night:    "night",
		Midnight: "midnight",
	}
)

// All returns the selectable zones in keypad order.
func All() []Zone {
	return []Zone{Morning, Noon, Night, Midnight}
}

// Parse converts a zone name (case-insensitive) into a Zone.
func Parse(s string) (Zone, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for z, name := range names {
		if z != Unset && name == s {
			return z, nil
		}
	}

	return Unset, fmt.Errorf("%w: %q", ErrUnknownZone, s)
}

// IsSet reports whether z is one of the selectable zones.
func (z Zone) IsSet() bool {
	_, ok := bounds[z]

	return ok
}

// Bound returns the inclusive hour range of the zone.
// The second result is false for Unset or out-of-range values.
func (z Zone) Bound() (Bound, bool) {
	b, ok := bounds[z]

	return b, ok
}

// String returns the lower-case zone name.
func (z Zone) String() string {
	if name, ok := names[z]; ok {
		return name
	}

	return fmt.Sprintf("zone(%d)", int(z))
}
