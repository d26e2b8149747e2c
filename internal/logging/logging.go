package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures New.
type Options struct {
	Out     io.Writer // console output, colored unless NoColor
	File    io.Writer // optional plain-text copy
	Level   string
	NoColor bool
	// Context is called for every event; used by the simulator to stamp
	// virtual tour time.
	Context func(e *zerolog.Event)
}

// ParseLevel maps a config log level to zerolog, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "TRACE":
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// New builds the process logger.
func New(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	var w io.Writer = zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    opts.NoColor,
	}
	if opts.File != nil {
		w = zerolog.MultiLevelWriter(w, zerolog.ConsoleWriter{
			Out:        opts.File,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}

	logger := zerolog.New(w).Level(ParseLevel(opts.Level)).With().Timestamp().Logger()
	if opts.Context != nil {
		logger = logger.Hook(zerolog.HookFunc(func(e *zerolog.Event, level zerolog.Level, msg string) {
			opts.Context(e)
		}))
	}
	return logger
}
