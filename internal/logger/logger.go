// Package logger wraps log/slog with a handler that formats records as
// plain "time level message attrs..." lines and writes them to a file,
// optionally mirroring to stderr. It is the simulator's sole logging
// entry point — every package logs through log/slog, never fmt.Println.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Handler is a slog.Handler that writes formatted lines to a file and,
// when debug is set (or the record is above Debug level), also to stderr.
type Handler struct {
	out   io.Writer
	h     slog.Handler
	mu    *sync.Mutex
	debug bool
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{out: h.out, h: h.h.WithAttrs(attrs), mu: h.mu, debug: h.debug}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{out: h.out, h: h.h.WithGroup(name), mu: h.mu, debug: h.debug}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	formattedTime := r.Time.Format("2006/01/02 15:04:05")

	strs := []string{formattedTime, level, r.Message}
	if r.NumAttrs() != 0 {
		r.Attrs(func(a slog.Attr) bool {
			strs = append(strs, a.Value.String())
			return true
		})
	}
	result := strings.Join(strs, " ") + "\n"
	b := []byte(result)

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}
	if h.debug || r.Level > slog.LevelDebug {
		_, err = os.Stderr.Write(b)
	}
	return err
}

// SetDebug toggles whether Debug records are mirrored to stderr as well;
// records above Debug are always mirrored.
func (h *Handler) SetDebug(debug *bool) {
	h.debug = *debug
}

// NewHandler builds a Handler writing to file. opts carries the standard
// slog.HandlerOptions (only Level and AddSource are consulted); debug, if
// non-nil and true, starts the stderr mirror enabled for every level.
func NewHandler(file io.Writer, opts *slog.HandlerOptions, debug *bool) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	d := false
	if debug != nil {
		d = *debug
	}
	return &Handler{
		out: file,
		h: slog.NewTextHandler(file, &slog.HandlerOptions{
			Level:     opts.Level,
			AddSource: opts.AddSource,
		}),
		mu:    &sync.Mutex{},
		debug: d,
	}
}
