// Package server runs the go-zakat-keeper HTTP server.
//
// It owns the listener lifecycle: startup, signal handling and graceful
// shutdown bounded by the configured shutdown timeout.
package server
