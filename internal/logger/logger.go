// Package logger настраивает slog для сервиса и утилит.
package logger

import (
	"io"
	"log/slog"
	"strings"
)

// New — JSON-логгер с уровнем из строки (debug, info, warn, error); неизвестный уровень даёт info
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

func ParseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}
