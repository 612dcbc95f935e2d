// Package zone defines the time-of-day zones and the digit validity table that
// gates keypad entry.
//
// Each zone owns a fixed inclusive hour range. ValidDigits answers which key may
// be pressed next from a lookup table keyed by zone, position and the hour tens
// digit already entered.
package zone
