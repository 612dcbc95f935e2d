// Package events broadcasts the output signals of the keypad session and the
// alarm clock (display changes, validation errors, alarm set/fired/cleared)
// to any number of watchers.
package events
