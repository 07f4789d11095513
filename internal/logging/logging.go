package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// EntityKey is the attribute that carries an entity identifier. The entity
// filter matches against its value.
const EntityKey = "entity"

// Options configures a run-scoped logger.
type Options struct {
	// Verbose enables debug records.
	Verbose bool
	// EntityFilter, when set, drops records whose entity attribute does not
	// contain it. Records without an entity attribute always pass.
	EntityFilter string
	// JSON selects the JSON handler instead of text.
	JSON bool
}

// New builds a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}

	var base slog.Handler
	if opts.JSON {
		base = slog.NewJSONHandler(w, hopts)
	} else {
		base = slog.NewTextHandler(w, hopts)
	}
	if opts.EntityFilter == "" {
		return slog.New(base)
	}
	return slog.New(NewFilterHandler(base, opts.EntityFilter))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// FilterHandler is an slog.Handler that forwards only records about
// entities matching a substring filter. An entity attribute on the record
// takes precedence over one bound earlier through WithAttrs.
type FilterHandler struct {
	base   slog.Handler
	filter string
	// bound is set once WithAttrs has seen an entity attribute; matched
	// holds its outcome for records that carry no entity of their own.
	bound   bool
	matched bool
}

// NewFilterHandler wraps base with an entity-name filter.
func NewFilterHandler(base slog.Handler, filter string) *FilterHandler {
	return &FilterHandler{base: base, filter: filter}
}

// Enabled implements slog.Handler.
func (h *FilterHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *FilterHandler) Handle(ctx context.Context, r slog.Record) error {
	keep := !h.bound || h.matched
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == EntityKey {
			keep = strings.Contains(a.Value.String(), h.filter)
			return false
		}
		return true
	})
	if !keep {
		return nil
	}
	return h.base.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *FilterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &FilterHandler{
		base:    h.base.WithAttrs(attrs),
		filter:  h.filter,
		bound:   h.bound,
		matched: h.matched,
	}
	for _, a := range attrs {
		if a.Key == EntityKey {
			next.bound = true
			next.matched = strings.Contains(a.Value.String(), h.filter)
		}
	}
	return next
}

// WithGroup implements slog.Handler.
func (h *FilterHandler) WithGroup(name string) slog.Handler {
	return &FilterHandler{
		base:    h.base.WithGroup(name),
		filter:  h.filter,
		bound:   h.bound,
		matched: h.matched,
	}
}
