package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// sink is one destination of a teeHandler; name labels its write errors.
type sink struct {
	name    string
	handler slog.Handler
}

// teeHandler sends each record to the console sink and the log file sink.
// Each sink applies its own level, so the file can keep debug records the
// console drops. A failing sink never starves the others.
type teeHandler struct {
	sinks []sink
}

// TeeHandler combines the console handler with the JSON log file handler.
// A nil handler is skipped; when only one remains it is returned as is.
func TeeHandler(console, file slog.Handler) slog.Handler {
	var sinks []sink
	if console != nil {
		sinks = append(sinks, sink{name: "console", handler: console})
	}
	if file != nil {
		sinks = append(sinks, sink{name: "file", handler: file})
	}
	switch len(sinks) {
	case 0:
		return NoopHandler{}
	case 1:
		return sinks[0].handler
	}
	return &teeHandler{sinks: sinks}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, s := range h.sinks {
		if !s.handler.Enabled(ctx, record.Level) {
			continue
		}
		// Handlers may retain the record, so every sink gets its own copy.
		if err := s.handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, fmt.Errorf("%s log: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithAttrs(attrs) })
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithGroup(name) })
}

func (h *teeHandler) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	next := make([]sink, len(h.sinks))
	for i, s := range h.sinks {
		next[i] = sink{name: s.name, handler: fn(s.handler)}
	}
	return &teeHandler{sinks: next}
}
