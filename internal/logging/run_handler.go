package logging

import (
	"context"
	"log/slog"
)

// runIDHandler stamps records with the run identifier carried by the context
// when the logger itself was not already tagged with one.
type runIDHandler struct {
	next   slog.Handler
	tagged bool
}

// WithRunIDHandler wraps handler so records logged with a run-scoped context
// include run_id.
func WithRunIDHandler(handler slog.Handler) slog.Handler {
	if handler == nil {
		return nil
	}
	return &runIDHandler{next: handler}
}

func (h *runIDHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *runIDHandler) Handle(ctx context.Context, record slog.Record) error {
	if !h.tagged {
		if id, ok := RunIDFromContext(ctx); ok && !recordHasKey(record, FieldRunID) {
			record = record.Clone()
			record.AddAttrs(slog.String(FieldRunID, id))
		}
	}
	return h.next.Handle(ctx, record)
}

func (h *runIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	tagged := h.tagged || HasAttrKey(attrs, FieldRunID)
	return &runIDHandler{next: h.next.WithAttrs(attrs), tagged: tagged}
}

func (h *runIDHandler) WithGroup(name string) slog.Handler {
	return &runIDHandler{next: h.next.WithGroup(name), tagged: h.tagged}
}

func recordHasKey(record slog.Record, key string) bool {
	found := false
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key {
			found = true
			return false
		}
		return true
	})
	return found
}
