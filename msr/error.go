// Copyright 2023 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msr

import (
	"errors"

	"system-transparency.org/stmsr/sterror"
)

// ErrScope is the scope of all errors raised by this package.
const ErrScope = sterror.MSR

// Operations used for raising Errors of this package.
const (
	ErrOpNew   sterror.Op = "open device"
	ErrOpRead  sterror.Op = "read register"
	ErrOpWrite sterror.Op = "write register"
	ErrOpClose sterror.Op = "close device"
)

// Error reports the kind of an MSR access failure.
type Error string

// Error implements error interface.
func (e Error) Error() string {
	return string(e)
}

// Kinds of errors which may be raised and wrapped in this package.
const (
	// ErrMissingKernelModule is raised when the per-CPU device node does
	// not exist, which means the msr kernel module is not loaded.
	ErrMissingKernelModule = Error("msr kernel module not loaded")
	// ErrIO wraps any failure reported by the operating system.
	ErrIO = Error("I/O error")
	// ErrUnknown is raised for failures that fit none of the other kinds.
	ErrUnknown = Error("unknown error")
)

// kindError attaches a kind to an underlying cause. errors.Is matches
// both the kind and everything in the cause's chain.
type kindError struct {
	kind  Error
	cause error
}

func (e kindError) Error() string {
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e kindError) Is(target error) bool {
	return target == e.kind
}

func (e kindError) Unwrap() error {
	return e.cause
}

func wrapKind(kind Error, cause error) error {
	if cause == nil {
		return kind
	}

	return kindError{kind: kind, cause: cause}
}

// IsMissingKernelModule reports whether err was caused by an absent
// device node.
func IsMissingKernelModule(err error) bool {
	return errors.Is(err, ErrMissingKernelModule)
}

// IsIO reports whether err is an operating system failure during
// stat, open, seek, read, write or close.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}
