// Package server holds the HTTP server configuration and constants.
//
// The Config struct defines the HTTP port, the API key checked by the auth
// middleware, the upload body limit and the emulator whose schema the
// built-in furniture import profile targets (Arcturus, Plus, Comet).
package server
