// Package logger builds the zap logger used by the server and the commands.
//
// Level "debug" selects zap's development config (console, ISO8601 times),
// any other level the production config. Format overrides the encoding.
//
// Request handlers derive a child logger with WithRayID so every line of an
// import run can be correlated with the X-Ray-ID of the request that started
// it:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Import run failed", zap.Error(err))
package logger
