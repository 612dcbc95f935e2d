// Package timeinput holds the keypad buffer: up to four digits gated by the
// zone validity table, decoded into an hour and minute and rendered for display.
package timeinput
