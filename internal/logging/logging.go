// Package logging configures the CLI's slog output.
package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// MultiHandler fans each record out to every wrapped handler that accepts
// its level.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler returns a handler writing to all of hs.
func NewMultiHandler(hs ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: hs}
}

// Enabled reports whether any wrapped handler accepts level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes r to each handler enabled for its level.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: hs}
}

// Options selects the CLI log level and an optional JSON log destination.
type Options struct {
	Verbose bool
	Quiet   bool
	// JSON, when non-nil, receives every record at debug level as JSON.
	JSON io.Writer
}

// Level maps the verbosity flags to a slog level: warn when quiet, debug
// when verbose, info otherwise.
func (o Options) Level() slog.Level {
	switch {
	case o.Verbose:
		return slog.LevelDebug
	case o.Quiet:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// New builds the logger used by the CLI: text on stderr, plus JSON records
// to o.JSON when set.
func New(stderr io.Writer, o Options) *slog.Logger {
	var h slog.Handler = slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: o.Level(),
	})
	if o.JSON != nil {
		jsonHandler := slog.NewJSONHandler(o.JSON, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		h = NewMultiHandler(h, jsonHandler)
	}
	return slog.New(h)
}
