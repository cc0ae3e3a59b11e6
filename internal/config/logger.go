package config

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger returns a logger writing to stderr with the given prefix. The
// level comes from ROCKS_LOG_LEVEL (debug, info, warn, error), default info.
func NewLogger(prefix string) *log.Logger {
	return newLogger(os.Stderr, prefix)
}

func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(GetEnv("ROCKS_LOG_LEVEL", "info"))
	if err != nil {
		logger.Warn("unknown log level, using info", "value", os.Getenv("ROCKS_LOG_LEVEL"))
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
