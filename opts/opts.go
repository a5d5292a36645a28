// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package opts holds the runtime options of the stmsr tool.
package opts

import (
	"system-transparency.org/stmsr/msr"
)

// Defaults applied by NewOpts before any Loader runs.
const (
	DefaultConfigFile = "/etc/stmsr.json"
	DefaultLogLevel   = "info"
	DefaultLogOutput  = OutputStderr
)

// Log outputs.
const (
	OutputStderr = "stderr"
	OutputSyslog = "syslog"
)

// Loader wraps the Load function.
// Load fills particular fields of Opts depending on its source.
type Loader interface {
	Load(*Opts) error
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(*Opts) error

// Load implements Loader.
func (f LoaderFunc) Load(o *Opts) error {
	return f(o)
}

// Opts controls the operation of stmsr.
type Opts struct {
	// DeviceRoot is the directory holding <cpu>/msr device nodes.
	DeviceRoot string `json:"device_root"`
	// LogLevel is one of error, warn, info, debug or their first letter.
	LogLevel string `json:"log_level"`
	// LogOutput is stderr or syslog.
	LogOutput string `json:"log_output"`
}

// NewOpts returns a new Opts initialized with defaults and then by the
// provided Loaders, in order.
func NewOpts(loaders ...Loader) (*Opts, error) {
	opts := &Opts{
		DeviceRoot: msr.DefaultRoot,
		LogLevel:   DefaultLogLevel,
		LogOutput:  DefaultLogOutput,
	}

	for _, l := range loaders {
		if err := l.Load(opts); err != nil {
			return nil, err
		}
	}

	return opts, nil
}

// WithDeviceRoot overrides the device root unless root is empty.
func WithDeviceRoot(root string) Loader {
	return LoaderFunc(func(o *Opts) error {
		if root != "" {
			o.DeviceRoot = root
		}

		return nil
	})
}

// WithLogLevel overrides the log level unless level is empty.
func WithLogLevel(level string) Loader {
	return LoaderFunc(func(o *Opts) error {
		if level != "" {
			o.LogLevel = level
		}

		return nil
	})
}

// WithSyslog switches the log output to the kernel syslog if enabled.
func WithSyslog(enabled bool) Loader {
	return LoaderFunc(func(o *Opts) error {
		if enabled {
			o.LogOutput = OutputSyslog
		}

		return nil
	})
}

// Opener returns the device opener for the configured root.
func (o *Opts) Opener() msr.OSOpener {
	return msr.OSOpener{Dir: o.DeviceRoot}
}
