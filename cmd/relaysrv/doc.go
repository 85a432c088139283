// Package `relaysrv` implements server application which relays
// newline-terminated lines between TCP clients.
//
// To compile the server locally, run from package directory:
//
//	go install .
//
// Server binary `relaysrv` will be placed into bin/ directory under Go
// projects root, identified with GOPATH environment variable.
//
// Or quickly launch server with command:
//
//	go run .
package main
