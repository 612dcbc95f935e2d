// Package server runs the alarm server process: one keypad session, the
// alarm clock, the gRPC keypad service and the optional metrics endpoint.
package server
