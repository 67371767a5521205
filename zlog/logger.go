// Copyright 2026 The zudiindex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zlog is the ambient logger used across zudiindex. It wraps the
// standard library's log.Logger behind a small interface so callers can
// swap in a silent or buffering logger for tests.
package zlog

import (
	"log"
	"os"
)

// Logger describes the logging surface used throughout zudiindex.
type Logger interface {
	// Tracef logs a structured one-line trace for an accepted statement.
	// Only emitted when verbose mode is enabled by the caller.
	Tracef(format string, args ...interface{})

	// Warnf logs a recoverable condition: an over-length line segment, a
	// rejected statement that aborts only the current driver.
	Warnf(format string, args ...interface{})

	// Errorf logs a condition that aborts the current operation.
	Errorf(format string, args ...interface{})

	// Fatalf logs a fatal message and exits the process.
	Fatalf(format string, args ...interface{})
}

// DefaultLogger is the logger used by package-level helpers below.
var DefaultLogger Logger

func init() {
	DefaultLogger = logWrapper{Logger: log.New(os.Stderr, "", log.LstdFlags), verbose: false}
}

type logWrapper struct {
	Logger  *log.Logger
	verbose bool
}

// New builds a Logger writing to w. verbose gates Tracef output.
func New(w *log.Logger, verbose bool) Logger {
	return logWrapper{Logger: w, verbose: verbose}
}

func (l logWrapper) Tracef(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.Logger.Printf("[zudiindex][TRACE] "+format, args...)
}

func (l logWrapper) Warnf(format string, args ...interface{}) {
	l.Logger.Printf("[zudiindex][WARN] "+format, args...)
}

func (l logWrapper) Errorf(format string, args ...interface{}) {
	l.Logger.Printf("[zudiindex][ERROR] "+format, args...)
}

func (l logWrapper) Fatalf(format string, args ...interface{}) {
	l.Logger.Fatalf("[zudiindex][FATAL] "+format, args...)
}

// SetVerbose toggles Tracef output on the DefaultLogger, if it supports it.
func SetVerbose(v bool) {
	if lw, ok := DefaultLogger.(logWrapper); ok {
		lw.verbose = v
		DefaultLogger = lw
	}
}

// Tracef logs through DefaultLogger.
func Tracef(format string, args ...interface{}) { DefaultLogger.Tracef(format, args...) }

// Warnf logs through DefaultLogger.
func Warnf(format string, args ...interface{}) { DefaultLogger.Warnf(format, args...) }

// Errorf logs through DefaultLogger.
func Errorf(format string, args ...interface{}) { DefaultLogger.Errorf(format, args...) }

// Fatalf logs through DefaultLogger and exits.
func Fatalf(format string, args ...interface{}) { DefaultLogger.Fatalf(format, args...) }
