package events

import (
	"time"

	"github.com/oshokin/zone-alarm/internal/domain/alarm"
	"github.com/oshokin/zone-alarm/internal/domain/zone"
)

// Kind names an output signal of the keypad session or the clock.
type Kind string

const (
	// KindDisplayChanged carries the new buffer rendering.
	KindDisplayChanged Kind = "display_changed"
	// KindValidationError carries a commit rejection message.
	KindValidationError Kind = "validation_error"
	// KindAlarmSet announces a committed alarm.
	KindAlarmSet Kind = "alarm_set"
	// KindAlarmFired announces that the pending alarm is due.
	KindAlarmFired Kind = "alarm_fired"
	// KindAlarmCleared asks the listener to silence and forget the alarm.
	KindAlarmCleared Kind = "alarm_cleared"
)

// Event is one output signal. Only the fields relevant to Kind are set.
type Event struct {
	Kind Kind
	At   time.Time

	// Display is set for KindDisplayChanged.
	Display string
	// Message is set for KindValidationError.
	Message string
	// Zone and Time are set for KindAlarmSet and KindAlarmFired.
	Zone zone.Zone
	Time alarm.Time
	// Overwrite is set for KindAlarmSet.
	Overwrite bool
}
