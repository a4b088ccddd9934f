// Package http implements the REST transport of the go-zakat-keeper server.
//
// It exposes route wiring, request handlers, and middleware. Authentication,
// tracing, access logging, metrics, compression and the handoff rate limit
// are handled here before requests are delegated to the service layer.
package http
