// Package logging provides component-tagged loggers plus request and actor
// identifiers carried through context (see context.go and hook.go).
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a logger tagged with a component identifier under the
// "cmp" key. Used by the notice controllers, the config watcher, and the
// HTTP middleware so log lines can be filtered per subsystem.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
