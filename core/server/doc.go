// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// configuration structure for the HTTP port, API key and shutdown timeout, and
// validates it before the server is started.
package server
