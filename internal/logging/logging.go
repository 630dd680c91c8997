// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the global zerolog logger. The TUI owns the
// terminal, so logs go to a file under the data directory; one-shot commands
// may route warnings to stderr instead.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logFileName is the log file under the data directory.
const logFileName = "courtside.log"

// Setup initializes the global logger writing to dir/courtside.log at the
// given level ("debug", "info", "warn", "error"; anything else means info).
// The returned closer flushes and closes the log file.
func Setup(dir, level string) (io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(f).Level(parseLevel(level)).With().Timestamp().Logger()
	return f, nil
}

// SetupStderr routes logs to stderr, for one-shot commands where a log file
// is overkill.
func SetupStderr(level string) {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	log.Logger = zerolog.New(writer).Level(parseLevel(level)).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
