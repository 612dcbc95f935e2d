// Package common holds helpers shared by several services.
//
// It provides a keypad gRPC client wrapper with timeouts and a helper to
// detect the current user and host, sent to the server for audit logs.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
