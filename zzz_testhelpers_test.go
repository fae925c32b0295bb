package tbe

import "github.com/rs/zerolog"

// discardLogger returns a logger that drops every event, used by tests
// that exercise logging paths without wanting the noise.
func discardLogger() zerolog.Logger {
	return zerolog.Nop()
}
