// Package keypad implements the remote keypad commands of the alarm-keypad CLI.
//
// Each command connects to the alarm server, performs one keypad action and
// prints the resulting keypad state. Watch streams the server's output signals.
package keypad
