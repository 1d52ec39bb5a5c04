// Package logging provides the shared zap logger for the fcubridge tools.
//
// Logging is silent by default so the CLIs stay quiet in scripts. Verbosity
// is enabled either with an explicit level (the bridge's --log-level flag)
// or through the FCUBRIDGE_LOG_LEVEL environment variable.
//
// The frame-handling convention matters for diagnostics: payloads that are
// not protocol frames at all are logged at debug (the bus carries other
// traffic), while frames that fail their checksum are logged at warn, since
// they indicate transport corruption.
package logging
