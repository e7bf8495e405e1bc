// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key) protecting the snapshot API.
//   - rayid: assigns a Request ID (RayID) to every request, stores it in the
//     context locals and echoes it in the X-Ray-ID response header.
//
// These are registered globally in the start command.
package middleware
