// Package logger implements a logging adapter using log/slog.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/marshal/internal/core/ports"
)

// messager matches zerr.Error, which reports its own message without the chain.
type messager interface {
	Message() string
}

// metadataer matches zerr.Error's structured metadata.
type metadataer interface {
	Metadata() map[string]any
}

// scopeKeys are the error metadata keys naming where a failure happened.
// Error lifts them out of the cause chain into record attributes.
var scopeKeys = []string{"workload", "task", "image"}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing pretty output to stderr.
func New() ports.Logger {
	return &Logger{
		logger: slog.New(NewPrettyHandler(os.Stderr, nil)),
		output: os.Stderr,
	}
}

// SetOutput updates the logger's output destination, keeping the current format.
// A nil writer selects os.Stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(l.handler())
}

// SetJSON switches between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.logger = slog.New(l.handler())
}

func (l *Logger) handler() slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.jsonMode {
		return slog.NewJSONHandler(l.output, opts)
	}
	return NewPrettyHandler(l.output, opts)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error together with its cause chain.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := collectErrorEntries(err)
	scope := liftScope(entries)
	if l.jsonMode {
		l.logger.LogAttrs(context.Background(), slog.LevelError, "operation failed", append(scope, slog.Any("error", err))...)
		return
	}
	l.logger.LogAttrs(context.Background(), slog.LevelError, formatErrorEntries(entries), scope...)
}

// liftScope removes the outermost occurrence of each scope key from entries
// and returns them as attributes in scopeKeys order.
func liftScope(entries []errorEntry) []slog.Attr {
	var attrs []slog.Attr
	for _, key := range scopeKeys {
		for i := range entries {
			v, ok := entries[i].metadata[key]
			if !ok {
				continue
			}
			attrs = append(attrs, slog.Any(key, v))
			delete(entries[i].metadata, key)
			break
		}
	}
	return attrs
}

type errorEntry struct {
	message  string
	metadata map[string]any
}

// collectErrorEntries walks the zerr chain. A standard error ends the walk
// because its Error() already includes everything below it. Metadata carried
// by a wrapper without a message is attached to the next message below it.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	var pending map[string]any
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, errorEntry{message: current.Error(), metadata: pending})
			pending = nil
			break
		}

		var md map[string]any
		if mdr, ok := current.(metadataer); ok {
			md = mdr.Metadata()
		}
		if m.Message() == "" {
			pending = mergeMetadata(pending, md)
		} else {
			entries = append(entries, errorEntry{message: m.Message(), metadata: mergeMetadata(pending, md)})
			pending = nil
		}
		current = errors.Unwrap(current)
	}
	if len(pending) > 0 {
		entries = append(entries, errorEntry{metadata: pending})
	}
	return entries
}

// mergeMetadata returns a copy of outer overlaid with inner.
func mergeMetadata(outer, inner map[string]any) map[string]any {
	if len(outer) == 0 && len(inner) == 0 {
		return nil
	}
	merged := make(map[string]any, len(outer)+len(inner))
	maps.Copy(merged, outer)
	maps.Copy(merged, inner)
	return merged
}

func formatErrorEntries(entries []errorEntry) string {
	var lines []string
	i := -1
	for _, e := range entries {
		msg := e.message
		switch {
		case len(e.metadata) > 0 && msg == "":
			msg = formatMetadata(e.metadata)
		case len(e.metadata) > 0:
			msg += " " + formatMetadata(e.metadata)
		}
		if msg == "" {
			continue
		}
		i++
		msgLines := strings.Split(msg, "\n")

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
	}
	return strings.Join(lines, "\n")
}

func formatMetadata(md map[string]any) string {
	keys := slices.Sorted(maps.Keys(md))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, md[k]))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
