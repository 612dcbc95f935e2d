// Package registry stores the single pending alarm.
//
// Commit validates and stores (or overwrites) the alarm, Clear removes it,
// Current exposes a copy for readers and Trigger lets the clock mark it fired.
package registry
