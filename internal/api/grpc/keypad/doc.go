// Package keypad implements the gRPC transport for the keypad session.
//
// The service is declared by hand on protobuf well-known types: requests are
// StringValue or Empty, keypad views and output events are Struct messages.
// The package also provides the typed client stub.
package keypad
