package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor returns an attribute carried by ctx, such as the
// reconciliation pass ID, and whether one was present.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// contextHandler stamps records with attributes pulled from their context.
// An attribute the call site sets explicitly wins over the extracted one.
type contextHandler struct {
	slog.Handler
	extractors []ContextExtractor
}

func withContextAttrs(next slog.Handler, extractors []ContextExtractor) slog.Handler {
	if len(extractors) == 0 {
		return next
	}
	return contextHandler{Handler: next, extractors: extractors}
}

func (h contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	var explicit map[string]struct{}
	for _, extract := range h.extractors {
		attr, ok := extract(ctx)
		if !ok || attr.Equal(slog.Attr{}) {
			continue
		}
		if explicit == nil {
			explicit = recordKeys(rec)
		}
		if _, set := explicit[attr.Key]; set {
			continue
		}
		rec.AddAttrs(attr)
		explicit[attr.Key] = struct{}{}
	}
	return h.Handler.Handle(ctx, rec)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return contextHandler{Handler: h.Handler.WithGroup(name), extractors: h.extractors}
}

func recordKeys(rec slog.Record) map[string]struct{} {
	keys := make(map[string]struct{}, rec.NumAttrs())
	rec.Attrs(func(a slog.Attr) bool {
		keys[a.Key] = struct{}{}
		return true
	})
	return keys
}
