// Package logx configures the engine's structured logger, adapted from
// freeeve-chessgraph's internal/logx. The one change that matters here:
// output goes to stderr, never stdout, since stdout is the UCI protocol
// stream and a stray log line there would desynchronise any GUI talking to
// the engine.
package logx

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog logger for engine diagnostics (cmd/uci logs
// rejected `position` input through it). It is distinct from the UCI
// info/bestmove lines the search prints directly.
func NewLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if file[i] == '/' {
				short = file[i+1:]
				break
			}
		}
		return fmt.Sprintf("%-28s", fmt.Sprintf("%s:%d", short, line))
	}
	return zerolog.New(output).With().Timestamp().Caller().Logger()
}

// NewLevelledLogger is NewLogger with an explicit minimum level, used by
// cmd/uci's -loglevel flag.
func NewLevelledLogger(level zerolog.Level) zerolog.Logger {
	return NewLogger().Level(level)
}
