package server

import "context"

// Server defines the lifecycle contract of the transport server.
//
// Implementations block in [Server.RunServer] until ctx is cancelled or a
// stop signal arrives, then shut down gracefully.
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer(ctx context.Context) error

	// Shutdown gracefully stops the server, waiting for in-flight requests.
	Shutdown(ctx context.Context) error
}
