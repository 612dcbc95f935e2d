package timeinput

import (
	"errors"
	"strconv"
	"strings"

	"github.com/oshokin/zone-alarm/internal/domain/alarm"
	"github.com/oshokin/zone-alarm/internal/domain/zone"
)

// Placeholder is displayed when the buffer cannot be decoded.
const Placeholder = "--:--"

const (
	noonShiftFirst = 1
	noonShiftLast  = 5
	noonShift      = 12
)

var (
	// ErrRejectedDigit is returned by Append for keys that are not currently legal.
	ErrRejectedDigit = errors.New("rejected digit")
	// ErrDecodeFailure is returned by Decode when a component is not a number.
	ErrDecodeFailure = errors.New("decode failure")
)

// Buffer accumulates up to four digits typed under a zone.
// The zero value has no zone and accepts nothing.
type Buffer struct {
	// zone gates which digits may be appended.
	zone zone.Zone
	// digits are the raw keys in entry order; they are never rewritten.
	digits []byte
}

// New returns an empty buffer for the zone.
func New(z zone.Zone) *Buffer {
	return &Buffer{
		zone:   z,
		digits: make([]byte, 0, zone.MaxDigits),
	}
}

// Zone returns the zone the buffer gates against.
func (b *Buffer) Zone() zone.Zone {
	return b.zone
}

// Digits returns the raw digits entered so far.
func (b *Buffer) Digits() string {
	return string(b.digits)
}

// Len returns the number of digits entered.
func (b *Buffer) Len() int {
	return len(b.digits)
}

// Full reports whether no further digit can be appended.
func (b *Buffer) Full() bool {
	return len(b.digits) >= zone.MaxDigits
}

// Reset clears the digits and keeps the zone.
func (b *Buffer) Reset() {
	b.digits = b.digits[:0]
}

// ValidDigits returns the keys that Append would accept next.
func (b *Buffer) ValidDigits() []byte {
	if b.Full() {
		return nil
	}

	return zone.ValidDigits(b.zone, zone.Position(len(b.digits)), string(b.digits))
}

// Append adds a digit if the validity table allows it at the current position.
func (b *Buffer) Append(digit byte) error {
	if b.Full() || !zone.IsValidDigit(b.zone, string(b.digits), digit) {
		return ErrRejectedDigit
	}

	b.digits = append(b.digits, digit)

	return nil
}

// Decode left-pads the digits to four, splits them into hour and minute and
// applies the Noon shift (hours 1-5 read as 13-17).
// The shift is derived from the raw digits on every call, so repeated calls agree.
func (b *Buffer) Decode() (alarm.Time, error) {
	padded := strings.Repeat("0", zone.MaxDigits-len(b.digits)) + string(b.digits)

	hour, err := strconv.Atoi(padded[:2])
	if err != nil {
		return alarm.Undecoded, ErrDecodeFailure
	}

	minute, err := strconv.Atoi(padded[2:])
	if err != nil {
		return alarm.Undecoded, ErrDecodeFailure
	}

	if b.zone == zone.Noon && hour >= noonShiftFirst && hour <= noonShiftLast {
		hour += noonShift
	}

	return alarm.Time{Hour: hour, Minute: minute}, nil
}

// Display renders the buffer as the keypad shows it: empty without a zone,
// Placeholder when decoding fails, else a 12-hour clock reading.
func (b *Buffer) Display() string {
	if !b.zone.IsSet() {
		return ""
	}

	t, err := b.Decode()
	if err != nil {
		return Placeholder
	}

	return t.String()
}
