// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// EnvVar names the environment variable holding the log level.
const EnvVar = "SNAPDIFF_LOG"

var traceEnabled bool

// InitLogger installs the one-line handler on stderr and sets the level from
// SNAPDIFF_LOG (trace, debug, info, warn, error, fatal). The default is error.
func InitLogger() {
	InitLoggerTo(os.Stderr, os.Getenv(EnvVar))
}

// InitLoggerTo is InitLogger with an explicit writer and level name.
func InitLoggerTo(w io.Writer, level string) {
	level = strings.ToLower(strings.TrimSpace(level))
	traceEnabled = level == "trace"

	var apexLevel log.Level
	switch level {
	case "trace", "debug":
		apexLevel = log.DebugLevel
	case "info":
		apexLevel = log.InfoLevel
	case "warn":
		apexLevel = log.WarnLevel
	case "fatal":
		apexLevel = log.FatalLevel
	default:
		apexLevel = log.ErrorLevel
	}

	log.SetHandler(&Handler{w: w})
	log.SetLevel(apexLevel)
}

// Handler writes "timestamp L message key=value..." lines. Stdout is left to
// the result document, so the default destination is stderr.
type Handler struct {
	mu sync.Mutex
	w  io.Writer
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	message := e.Message
	level := "?"
	if rest, ok := strings.CutPrefix(message, "TRACE: "); ok {
		level = "T"
		message = rest
	} else {
		switch e.Level {
		case log.DebugLevel:
			level = "D"
		case log.InfoLevel:
			level = "I"
		case log.WarnLevel:
			level = "W"
		case log.ErrorLevel:
			level = "E"
		case log.FatalLevel:
			level = "F"
		}
	}

	var fields strings.Builder
	names := e.Fields.Names()
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&fields, " %s=%v", name, e.Fields.Get(name))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.w, "%s %s %s%s\n", time.Now().Format("2006-01-02 15:04:05"), level, message, fields.String())
	return err
}

// Tracef logs below Debug; only emitted when SNAPDIFF_LOG=trace.
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug("TRACE: " + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at Debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Debug logs at Debug level.
func Debug(msg string) {
	log.Debug(msg)
}

// Infof logs at Info level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs at Warn level.
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Errorf logs at Error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// WithError returns an entry carrying err.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}
