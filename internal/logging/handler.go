package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Sink is one log destination with its own minimum level.
type Sink struct {
	Name    string
	Handler slog.Handler
	Level   slog.Leveler
}

func (s Sink) enabled(ctx context.Context, level slog.Level) bool {
	return level >= s.Level.Level() && s.Handler.Enabled(ctx, level)
}

// MultiLevelHandler fans records out to sinks, each filtered on its own.
// A failing sink does not stop the others.
type MultiLevelHandler struct {
	sinks []Sink
}

func NewMultiLevelHandler(sinks ...Sink) *MultiLevelHandler {
	for i := range sinks {
		if sinks[i].Level == nil {
			sinks[i].Level = slog.LevelDebug
		}
	}
	return &MultiLevelHandler{sinks: sinks}
}

func (h *MultiLevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *MultiLevelHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, s := range h.sinks {
		if !s.enabled(ctx, record.Level) {
			continue
		}
		if err := s.Handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, fmt.Errorf("log sink %s: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (h *MultiLevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(hd slog.Handler) slog.Handler { return hd.WithAttrs(attrs) })
}

func (h *MultiLevelHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(hd slog.Handler) slog.Handler { return hd.WithGroup(name) })
}

func (h *MultiLevelHandler) derive(f func(slog.Handler) slog.Handler) *MultiLevelHandler {
	sinks := make([]Sink, len(h.sinks))
	for i, s := range h.sinks {
		s.Handler = f(s.Handler)
		sinks[i] = s
	}
	return &MultiLevelHandler{sinks: sinks}
}
