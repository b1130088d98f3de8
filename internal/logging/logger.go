package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Params struct {
	Level  string // debug | info | warn | error
	Format string // text | json
	File   string // optional rotating log file, written in addition to stdout
}

// New builds the process logger. The returned closer flushes the log file, if any.
func New(p Params) (*slog.Logger, io.Closer) {
	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}

	if p.File != "" {
		name := p.File
		if !strings.HasSuffix(name, ".log") {
			name += ".log"
		}
		rotating := &lumberjack.Logger{
			Filename:   name,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotating)
		closer = rotating
	}

	return newWithWriter(out, p), closer
}

func newWithWriter(w io.Writer, p Params) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(p.Level)}

	var h slog.Handler
	if strings.EqualFold(p.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("app", "fitbot")
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
