// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

// Package telemetry configures GPM's structured logging from the GPM_LOG
// environment directive.
package telemetry

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits one step below [slog.LevelDebug], selected by the
// "trace" level name in GPM_LOG and rendered as "TRACE".
const LevelTrace = slog.LevelDebug - 4

var levelNames = map[string]slog.Level{
	"trace": LevelTrace,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Setup installs the default [slog] logger according to the GPM_LOG
// directive, and returns it.
//
// GPM_LOG is either a single level name ("debug") applied to every
// module, or a comma-separated list of "module=level" pairs
// ("resolver=trace,lfs=debug"). An unset GPM_LOG defaults to "info" for
// every module not otherwise named. A record's module is read from its
// "module" attribute; records without one are judged against the
// unnamed ("") entry.
func Setup() *slog.Logger {
	levels := parseDirective(os.Getenv("GPM_LOG"))

	handler := &moduleHandler{
		levels: levels,
		inner: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: LevelTrace,
			ReplaceAttr: replaceTraceLevel,
		}),
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func replaceTraceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}

	level, ok := a.Value.Any().(slog.Level)
	if ok && level == LevelTrace {
		a.Value = slog.StringValue("TRACE")
	}

	return a
}

func parseDirective(directive string) map[string]slog.Level {
	levels := map[string]slog.Level{"": slog.LevelInfo}
	if directive == "" {
		return levels
	}

	for _, part := range strings.Split(directive, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		module, levelName, hasModule := strings.Cut(part, "=")
		if !hasModule {
			levelName = module
			module = ""
		}

		level, ok := levelNames[strings.ToLower(strings.TrimSpace(levelName))]
		if !ok {
			continue
		}

		levels[module] = level
	}

	return levels
}

// moduleHandler filters records against a per-module minimum level before
// delegating to inner. Module scoping is looked up from each record's
// "module" attribute.
type moduleHandler struct {
	levels map[string]slog.Level
	inner  slog.Handler
	module string
}

func (h *moduleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.minLevel()
}

func (h *moduleHandler) Handle(ctx context.Context, record slog.Record) error {
	module := h.module
	record.Attrs(func(a slog.Attr) bool {
		if a.Key == "module" {
			module = a.Value.String()
			return false
		}

		return true
	})

	if record.Level < h.levelFor(module) {
		return nil
	}

	return h.inner.Handle(ctx, record)
}

func (h *moduleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	module := h.module
	for _, a := range attrs {
		if a.Key == "module" {
			module = a.Value.String()
		}
	}

	return &moduleHandler{levels: h.levels, inner: h.inner.WithAttrs(attrs), module: module}
}

func (h *moduleHandler) WithGroup(name string) slog.Handler {
	return &moduleHandler{levels: h.levels, inner: h.inner.WithGroup(name), module: h.module}
}

func (h *moduleHandler) levelFor(module string) slog.Level {
	if level, ok := h.levels[module]; ok {
		return level
	}

	return h.levels[""]
}

// minLevel is the lowest threshold configured across every module, used
// so Enabled never rejects a record Handle would have kept.
func (h *moduleHandler) minLevel() slog.Level {
	min := h.levels[""]
	for _, level := range h.levels {
		if level < min {
			min = level
		}
	}

	return min
}
