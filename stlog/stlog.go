// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stlog exposes leveled logging capabilities.
//
// stlog wraps two loggers and adds log levels to them:
// There is a standard "log" package logger and another
// using the kernel syslog system.
package stlog

import (
	"os"
	"sync"
)

const (
	prefix   string = "stmsr: "
	errorTag string = "[ERROR] "
	warnTag  string = "[WARN]  "
	infoTag  string = "[INFO]  "
	debugTag string = "[DEBUG] "
)

type LogLevel int

const (
	ErrorLevel LogLevel = iota
	WarnLevel
	InfoLevel
	DebugLevel
)

func (l LogLevel) String() string {
	switch l {
	case ErrorLevel:
		return "error"
	case WarnLevel:
		return "warn"
	case InfoLevel:
		return "info"
	default:
		return "debug"
	}
}

type LogOutput int

const (
	StdError LogOutput = iota
	KernelSyslog
)

//nolint:gochecknoglobals
var (
	mu  sync.Mutex
	stl levelLogger = newStandardLogger(os.Stderr)
)

type levelLogger interface {
	setLevel(level LogLevel)
	logLevel() LogLevel
	error(format string, v ...interface{})
	warn(format string, v ...interface{})
	info(format string, v ...interface{})
	debug(format string, v ...interface{})
}

func current() levelLogger {
	mu.Lock()
	defer mu.Unlock()

	return stl
}

// SetOutput sets the package's underlying logger. The current log level
// is carried over. If the kernel logger cannot be initialized, the
// current logger stays active and the error is returned.
func SetOutput(o LogOutput) error {
	mu.Lock()
	defer mu.Unlock()

	var next levelLogger

	switch o {
	case KernelSyslog:
		kl, err := newKernelLogger()
		if err != nil {
			stl.warn("kernel syslog unavailable, keep logging to stderr: %v", err)

			return err
		}

		next = kl
	default:
		next = newStandardLogger(os.Stderr)
	}

	next.setLevel(stl.logLevel())
	stl = next

	return nil
}

// SetLevel sets the logging level of stlog package. Unknown levels
// are treated as DebugLevel.
func SetLevel(l LogLevel) {
	switch l {
	case ErrorLevel, WarnLevel, InfoLevel, DebugLevel:
	default:
		l = DebugLevel
	}

	current().setLevel(l)
}

// Level returns the logging level of the currently active logger.
func Level() LogLevel {
	return current().logLevel()
}

// Error prints error messages to the currently active logger when permitted
// by the log level. Input can be formatted according to fmt.Printf.
func Error(format string, v ...interface{}) {
	current().error(format, v...)
}

// Warn prints warning messages to the currently active logger when permitted
// by the log level. Input can be formatted according to fmt.Printf.
func Warn(format string, v ...interface{}) {
	current().warn(format, v...)
}

// Info prints info messages to the currently active logger when permitted
// by the log level. Input can be formatted according to fmt.Printf.
func Info(format string, v ...interface{}) {
	current().info(format, v...)
}

// Debug prints debug messages to the currently active logger when permitted
// by the log level. Input can be formatted according to fmt.Printf.
func Debug(format string, v ...interface{}) {
	current().debug(format, v...)
}
