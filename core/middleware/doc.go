// Package middleware groups the HTTP middleware of the Fiber application.
//
// # Components
//
//   - auth: API key validation protecting the import endpoints.
//   - rayid: a per-request id (RayID) stored in the context and echoed in
//     the response headers for tracing.
package middleware
