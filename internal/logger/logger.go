// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger wraps zerolog for the server and the CLI. Request and
// operation scoped loggers travel in the context; pull them out with
// FromContext or FromRequest.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LevelEnv overrides the minimum level of both loggers, e.g. "warn".
const LevelEnv = "LOG_LEVEL"

type Logger struct {
	zerolog.Logger
}

// NewLogger is the server logger: JSON on stdout, debug by default.
func NewLogger(role string) *Logger {
	zerolog.SetGlobalLevel(levelFromEnv(zerolog.DebugLevel))
	return newLogger(role, os.Stdout)
}

// NewClientLogger is the CLI logger. The terminal belongs to command
// output, so entries are appended to the file at path instead. An empty or
// unwritable path discards them.
func NewClientLogger(role, path string) *Logger {
	zerolog.SetGlobalLevel(levelFromEnv(zerolog.InfoLevel))
	return newLogger(role, openLogFile(path))
}

func newLogger(role string, out io.Writer) *Logger {
	zerolog.CallerFieldName = "func"
	zerolog.CallerMarshalFunc = func(pc uintptr, _ string, _ int) string {
		return runtime.FuncForPC(pc).Name()
	}

	return &Logger{zerolog.New(out).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()}
}

func openLogFile(path string) io.Writer {
	if path == "" {
		return io.Discard
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return io.Discard
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return io.Discard
	}
	return f
}

func levelFromEnv(fallback zerolog.Level) zerolog.Level {
	raw := strings.TrimSpace(os.Getenv(LevelEnv))
	if raw == "" {
		return fallback
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return fallback
	}
	return level
}

// Nop discards everything. Used by tests and as a default for optional
// loggers.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger copies l so fields can be added without touching l.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}

// FromContext returns the logger attached to ctx, or zerolog's default
// logger when there is none. It never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
