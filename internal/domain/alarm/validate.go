package alarm

import (
	"errors"
	"fmt"

	"github.com/oshokin/zone-alarm/internal/domain/zone"
)

const maxMinute = 59

var (
	// ErrZoneRequired is returned when committing without a selected zone.
	ErrZoneRequired = errors.New("zone required")
	// ErrHourOutOfRange is returned when the hour lies outside the zone bound.
	ErrHourOutOfRange = errors.New("hour out of range")
	// ErrInvalidTime is returned when a component failed to decode or the minute exceeds 59.
	ErrInvalidTime = errors.New("invalid time")
)

// RejectionError explains why a commit was refused.
// It wraps one of the sentinel errors above.
type RejectionError struct {
	// Zone is the zone selected at commit time.
	Zone zone.Zone
	// Reason is the user-facing message.
	Reason string

	err error
}

// Error returns the user-facing reason.
func (e *RejectionError) Error() string {
	return e.Reason
}

// Unwrap returns the sentinel error.
func (e *RejectionError) Unwrap() error {
	return e.err
}

// Validate checks a decoded time against the zone bound and minute range.
// The hour is re-checked here even though entry was gated, since Noon
// normalization can move it.
func Validate(z zone.Zone, t Time) error {
	if !z.IsSet() {
		return &RejectionError{Zone: z, Reason: ErrZoneRequired.Error(), err: ErrZoneRequired}
	}

	if t.IsUndecoded() {
		return &RejectionError{Zone: z, Reason: ErrInvalidTime.Error(), err: ErrInvalidTime}
	}

	bound, _ := z.Bound()
	if !bound.Contains(t.Hour) {
		return &RejectionError{
			Zone:   z,
			Reason: fmt.Sprintf("%s: %s hours are %s", ErrHourOutOfRange, z, bound),
			err:    ErrHourOutOfRange,
		}
	}

	if t.Minute > maxMinute {
		return &RejectionError{Zone: z, Reason: ErrInvalidTime.Error(), err: ErrInvalidTime}
	}

	return nil
}
