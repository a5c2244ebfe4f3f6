package logx

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Error = tint.Err //nolint:gochecknoglobals

func Stringer(name string, value fmt.Stringer) slog.Attr {
	return slog.String(name, value.String())
}

type Options struct {
	Level  string
	Format string // "text" or "json"

	// File, when set, duplicates the output into a size-rotated file.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewLogger builds the process logger. The returned closer flushes the
// rotated file (a no-op when no file is configured).
func NewLogger(opts Options) (*slog.Logger, io.Closer, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(cmpOr(opts.Level, "info"))); err != nil {
		return nil, nil, fmt.Errorf("level.UnmarshalText: %w", err)
	}

	var (
		out    io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)

	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}

		out = io.MultiWriter(os.Stdout, rotated)
		closer = rotated
	}

	var handler slog.Handler

	switch strings.ToLower(cmpOr(opts.Format, "text")) {
	case "json":
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	case "text":
		handler = tint.NewHandler(out, &tint.Options{
			Level:   level,
			NoColor: opts.File != "",
		})
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	return slog.New(handler), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func cmpOr(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
