// Package logger constructs the process-wide zerolog logger.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds a console logger at the named level. Unknown level names fall
// back to info.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Logger().
		Level(lvl)
}
