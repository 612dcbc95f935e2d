// Package alarm contains core domain types for the alarm business logic.
//
// It defines Time (a wall-clock hour and minute), Pending (the single alarm
// waiting to fire) and Validate, which decides whether a decoded time may be
// committed under a zone.
package alarm
