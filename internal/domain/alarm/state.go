package alarm

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/zone-alarm/internal/domain/zone"
)

// Time is a wall-clock hour and minute.
type Time struct {
	// Hour is in 24-hour form.
	Hour int
	// Minute is the minute of the hour.
	Minute int
}

// Undecoded marks a time whose digits could not be decoded.
//
//nolint:gochecknoglobals // Sentinel value.
var Undecoded = Time{Hour: -1, Minute: -1}

// IsUndecoded reports whether either component failed to decode.
func (t Time) IsUndecoded() bool {
	return t.Hour < 0 || t.Minute < 0
}

// String renders the time on a 12-hour clock, e.g. "3:05 PM".
// The designator depends only on the hour, never on the zone.
func (t Time) String() string {
	designator := "AM"
	if t.Hour >= 12 {
		designator = "PM"
	}

	hour := t.Hour % 12
	if hour == 0 {
		hour = 12
	}

	return fmt.Sprintf("%d:%02d %s", hour, t.Minute, designator)
}

// Pending is the single alarm waiting to fire.
type Pending struct {
	// ID identifies this alarm instance; a new commit always gets a new ID.
	ID uuid.UUID
	// Zone is the zone the alarm was entered under.
	Zone zone.Zone
	// At is the target wall-clock time.
	At Time
	// Armed is true while the alarm is waiting to fire.
	Armed bool
	// Triggered is true once the alarm has fired and until it is cleared.
	Triggered bool
	// SetAt is when the alarm was committed.
	SetAt time.Time
}

// NewPending creates an armed alarm with a fresh identifier.
func NewPending(z zone.Zone, at Time, now time.Time) *Pending {
	return &Pending{
		ID:    uuid.New(),
		Zone:  z,
		At:    at,
		Armed: true,
		SetAt: now,
	}
}

// Clone returns a copy of the alarm to avoid leaking internal references.
func (p *Pending) Clone() *Pending {
	if p == nil {
		return nil
	}

	cloned := *p

	return &cloned
}

// Due reports whether the alarm should fire at now:
// it is armed, and now is second zero of the target minute.
func (p *Pending) Due(now time.Time) bool {
	return p != nil &&
		p.Armed &&
		!p.Triggered &&
		now.Hour() == p.At.Hour &&
		now.Minute() == p.At.Minute &&
		now.Second() == 0
}

// Missed reports whether now is inside the target minute but past second zero
// while the alarm is still armed. Such an alarm will not fire today.
func (p *Pending) Missed(now time.Time) bool {
	return p != nil &&
		p.Armed &&
		!p.Triggered &&
		now.Hour() == p.At.Hour &&
		now.Minute() == p.At.Minute &&
		now.Second() != 0
}

// Label renders the alarm for display, e.g. "noon 3:00 PM".
func (p *Pending) Label() string {
	return p.Zone.String() + " " + p.At.String()
}
