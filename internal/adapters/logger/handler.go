package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/marshal/internal/ui/output"
	"go.trai.ch/marshal/internal/ui/style"
)

// PrettyHandler is a slog.Handler that produces human-readable, colored output.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to w.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level.Level()
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record. Scope attributes are rendered as a
// bracketed prefix, e.g. "[w › w.img]"; all others trail the message as k=v.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var icon string
	var color termenv.Color

	switch r.Level {
	case slog.LevelWarn:
		icon = style.Warning
		color = termenv.RGBColor(string(style.Yellow))
	case slog.LevelError:
		icon = style.Cross
		color = termenv.RGBColor(string(style.Red))
	default:
		color = termenv.RGBColor(string(style.Slate))
	}

	var scope, parts []string
	add := func(attr slog.Attr) bool {
		if h.group == "" && slices.Contains(scopeKeys, attr.Key) {
			scope = append(scope, scopeLabel(attr))
		} else {
			parts = append(parts, formatAttr(h.group, attr))
		}
		return true
	}
	for _, attr := range h.attrs {
		add(attr)
	}
	r.Attrs(add)

	head := make([]string, 0, 3)
	if icon != "" {
		head = append(head, icon)
	}
	if len(scope) > 0 {
		head = append(head, "["+strings.Join(scope, " › ")+"]")
	}
	msg := strings.Join(append(head, r.Message), " ")
	if len(parts) > 0 {
		msg += " " + strings.Join(parts, " ")
	}

	_, err := h.out.WriteString(h.out.String(msg).Foreground(color).String() + "\n")
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &PrettyHandler{out: h.out, level: h.level, attrs: merged, group: h.group}
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{out: h.out, level: h.level, attrs: h.attrs, group: name}
}

func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}

// scopeLabel shortens task and image paths to their file name.
func scopeLabel(attr slog.Attr) string {
	v := attr.Value.String()
	if attr.Key == "workload" {
		return v
	}
	return filepath.Base(v)
}
