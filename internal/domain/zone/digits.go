package zone

// Position is the ordinal slot of a digit within the four-digit time buffer.
type Position int

const (
	// HourTens is the first entered digit.
	HourTens Position = iota
	// HourUnits is the second entered digit.
	HourUnits
	// MinuteTens is the third entered digit.
	MinuteTens
	// MinuteUnits is the fourth entered digit.
	MinuteUnits
)

// MaxDigits is the capacity of the time buffer.
const MaxDigits = 4

// digitKey addresses one row of the validity table.
// prior is the already entered hour tens digit, or 0 for HourTens.
type digitKey struct {
	zone     Zone
	position Position
	prior    byte
}

//nolint:gochecknoglobals // Fixed lookup tables.
var (
	allDigits = "0123456789"

	// hourDigits lists the legal hour digits per zone. Noon accepts 11..17 because
	// a low decoded hour is shifted into the afternoon later on.
	hourDigits = map[digitKey]string{
		{Morning, HourTens, 0}:    "01",
		{Morning, HourUnits, '0'}: "456789",
		{Morning, HourUnits, '1'}: "0",

		{Noon, HourTens, 0}:    "1",
		{Noon, HourUnits, '1'}: "1234567",

		{Night, HourTens, 0}:    "12",
		{Night, HourUnits, '1'}: "89",
		{Night, HourUnits, '2'}: "0123",

		{Midnight, HourTens, 0}:    "0123",
		{Midnight, HourUnits, '0'}: "0123",
		{Midnight, HourUnits, '1'}: allDigits,
		{Midnight, HourUnits, '2'}: allDigits,
		{Midnight, HourUnits, '3'}: "0",
	}
)

// ValidDigits returns the digits that may be entered at position given the digits
// entered before it. The result is empty when the zone is unset, the buffer is
// full, or prior does not match the position.
func ValidDigits(z Zone, position Position, prior string) []byte {
	if !z.IsSet() || position < HourTens || position >= MaxDigits || len(prior) != int(position) {
		return nil
	}

	var digits string

	switch position {
	case HourTens:
		digits = hourDigits[digitKey{zone: z, position: HourTens}]
	case HourUnits:
		digits = hourDigits[digitKey{zone: z, position: HourUnits, prior: prior[0]}]
	default:
		digits = allDigits
	}

	return []byte(digits)
}

// IsValidDigit reports whether digit may be appended after prior in zone z.
func IsValidDigit(z Zone, prior string, digit byte) bool {
	for _, d := range ValidDigits(z, Position(len(prior)), prior) {
		if d == digit {
			return true
		}
	}

	return false
}
