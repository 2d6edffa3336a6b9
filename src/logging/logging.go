package logging

import (
	"io"
	"log/slog"
	"strings"
)

type Options struct {
	// debug, info, warn or error. Anything else means info.
	Level string
	// text or json.
	Format string
	// Attributes attached to every record, such as the run id.
	Attrs []any
}

// Creates the run-wide logger. The CLI passes stderr as w; stdout carries the
// scheduler's status lines.
func New(opts Options, w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler).With(opts.Attrs...)
}

// Returns the logger of one component. A nil logger discards everything.
func For(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger.With("component", component)
}

func ParseLevel(s string) slog.Level {
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
