// Package session implements the interactive keypad controller.
//
// A Session owns the selected zone and the input buffer, forwards commits to
// the alarm registry and reports every change to a Listener.
package session
