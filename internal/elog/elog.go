// Package elog is the shared structured logger, grounded on the
// rs/zerolog usage in the Watermarck optimizer's main.go: a single
// package-level Logger built once. The engine logs only at Warn, for
// recoverable degradations (slow encodes, a cache still over budget
// after the eviction cap, formats that contributed no candidate).
package elog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// L is the process-wide structured logger. Every sub-package logs
// through this instance rather than constructing its own, so a
// single -verbose flag (wired in cmd/pyjamaz) controls verbosity everywhere.
var L zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	L = zerolog.New(os.Stderr).With().Timestamp().Str("component", "pyjamaz").Logger()
}

// SetLevel adjusts the global minimum level, used by the CLI's
// -verbose flag.
func SetLevel(level zerolog.Level) {
	L = L.Level(level)
}
