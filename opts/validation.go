package opts

import (
	"path/filepath"
	"strings"

	"system-transparency.org/stmsr/stlog"
)

const (
	ErrMissingDevRoot = InvalidError("device root must be set")
	ErrRelativeRoot   = InvalidError("device root must be an absolute path")
	ErrUnknownLevel   = InvalidError("unknown log level")
	ErrUnknownOutput  = InvalidError("unknown log output")
)

// Validater is the interface that wraps the Validate method.
//
// Validate takes Opts and performs validation on it. If Opts is not
// valid an InvalidError is returned.
type Validater interface {
	Validate(*Opts) error
}

type validFunc func(*Opts) error

// ValidationSet is a collection of validation functions.
type ValidationSet []validFunc

// Validate implements Validater.
func (v *ValidationSet) Validate(opts *Opts) error {
	for _, f := range *v {
		if err := f(opts); err != nil {
			return err
		}
	}

	return nil
}

// DefaultValidation checks every field of Opts.
func DefaultValidation() *ValidationSet {
	return &ValidationSet{
		checkDeviceRoot,
		checkLogLevel,
		checkLogOutput,
	}
}

// Validate runs DefaultValidation on o.
func (o *Opts) Validate() error {
	return DefaultValidation().Validate(o)
}

func checkDeviceRoot(o *Opts) error {
	if o.DeviceRoot == "" {
		return ErrMissingDevRoot
	}

	if !filepath.IsAbs(o.DeviceRoot) {
		return ErrRelativeRoot
	}

	return nil
}

func checkLogLevel(o *Opts) error {
	_, err := ParseLevel(o.LogLevel)

	return err
}

func checkLogOutput(o *Opts) error {
	switch o.LogOutput {
	case OutputStderr, OutputSyslog:
		return nil
	default:
		return ErrUnknownOutput
	}
}

// ParseLevel maps a log level name or its first letter to a stlog level.
func ParseLevel(s string) (stlog.LogLevel, error) {
	switch strings.ToLower(s) {
	case "e", "error":
		return stlog.ErrorLevel, nil
	case "w", "warn":
		return stlog.WarnLevel, nil
	case "i", "info":
		return stlog.InfoLevel, nil
	case "d", "debug":
		return stlog.DebugLevel, nil
	default:
		return stlog.InfoLevel, ErrUnknownLevel
	}
}

// Apply validates o and configures stlog accordingly.
func (o *Opts) Apply() error {
	if err := o.Validate(); err != nil {
		return err
	}

	level, _ := ParseLevel(o.LogLevel)
	stlog.SetLevel(level)

	if o.LogOutput == OutputSyslog {
		return stlog.SetOutput(stlog.KernelSyslog)
	}

	return stlog.SetOutput(stlog.StdError)
}
