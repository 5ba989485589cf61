package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Options selects and tunes a logger backend.
type Options struct {
	// Backend is "slog" (default) or "zap".
	Backend string
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string
	// Format is "text" or "json". Only used by the slog backend.
	Format string
	// File, when set, makes the zap backend also write to a rotated log file.
	File string
	// Output overrides stderr. Mostly for tests.
	Output io.Writer
}

// New builds a Logger from opts.
func New(opts Options) (Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", "slog":
		l, err := NewSlog(SlogOptions{Level: opts.Level, Format: opts.Format, Output: out})
		if err != nil {
			return nil, err
		}
		return l, nil
	case "zap":
		l, err := NewZapLogger(ZapOptions{Level: opts.Level, File: opts.File, Output: out})
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", opts.Backend)
	}
}
