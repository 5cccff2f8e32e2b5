// Package logging builds the process slog.Logger from configuration.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/1broseidon/winbridge/internal/config"
)

// ParseLevel converts a config level name to a slog level. Unknown names
// map to Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Options selects the handler.
type Options struct {
	Level     string
	Format    string // text or json
	File      string // empty writes to Stderr
	MaxSizeMB int
	MaxFiles  int
	Stderr    io.Writer
}

// FromConfig maps the logging keys of cfg to Options.
func FromConfig(cfg *config.Config) Options {
	return Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		File:      cfg.LogFile,
		MaxSizeMB: cfg.LogMaxSizeMB,
		MaxFiles:  cfg.LogMaxFiles,
	}
}

// New builds a logger. The returned closer releases the log file, if any,
// and is never nil.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	var (
		out    io.Writer = opts.Stderr
		closer io.Closer = nopCloser{}
	)
	if out == nil {
		out = os.Stderr
	}
	if opts.File != "" {
		f, err := OpenRotatingFile(opts.File, opts.MaxSizeMB, opts.MaxFiles)
		if err != nil {
			return nil, nil, err
		}
		out, closer = f, f
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}
	return slog.New(handler), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
