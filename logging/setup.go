package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ethereum/go-ethereum/log"
)

// LevelFromString maps a CLI level name onto a slog level.
func LevelFromString(name string) (slog.Level, error) {
	switch name {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "", "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	default:
		return log.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// NewLogger builds the terminal logger shared by the CLIs and installs it as
// the process default. verbose forces at least debug verbosity regardless of
// the named level.
func NewLogger(w io.Writer, levelName string, verbose bool) (log.Logger, error) {
	level, err := LevelFromString(levelName)
	if err != nil {
		return nil, err
	}
	if verbose && level > log.LevelDebug {
		level = log.LevelDebug
	}
	logger := log.NewLogger(log.NewTerminalHandlerWithLevel(w, level, false))
	log.SetDefault(logger)
	return logger, nil
}
