// Copyright 2023 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package msr reads and writes x86 model specific registers from user
// space through the per-CPU device nodes of the msr kernel module.
//
// An Accessor is bound to one register on one CPU. It is not safe for
// concurrent use: Read moves the file position and overwrites the
// staging buffer that Write sends. Callers that share an Accessor between
// goroutines must serialize access themselves.
package msr

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"system-transparency.org/stmsr/sterror"
	"system-transparency.org/stmsr/stlog"
)

const valueSize = 8

//nolint:gochecknoglobals
var defaultOpener Opener = OSOpener{}

// Accessor owns an open device node and an 8 byte staging buffer for a
// single register.
type Accessor struct {
	reg  uint32
	cpu  uint16
	path string
	dev  Device
	buf  [valueSize]byte
}

// New opens the device node of cpu below /dev/cpu for register reg.
func New(reg uint32, cpu uint16) (*Accessor, error) {
	return NewWithOpener(reg, cpu, defaultOpener)
}

// NewWithOpener is like New but gets the device node from o.
//
// If the node does not exist, ErrMissingKernelModule is returned and no
// open is attempted. Open failures are returned as ErrIO, unless the
// node vanished or reports no device in the meantime, which is again
// ErrMissingKernelModule.
func NewWithOpener(reg uint32, cpu uint16, o Opener) (*Accessor, error) {
	const operation = ErrOpNew

	if o == nil {
		return nil, sterror.E(ErrScope, operation, ErrUnknown, "no device opener")
	}

	path := DevicePath(o.Root(), cpu)

	ok, err := o.Exists(path)
	if err != nil {
		return nil, sterror.E(ErrScope, operation, wrapKind(ErrIO, err), path)
	}

	if !ok {
		stlog.Debug("%s does not exist, msr kernel module not loaded?", path)

		return nil, sterror.E(ErrScope, operation, ErrMissingKernelModule, path)
	}

	dev, err := o.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || noDevice(err) {
			stlog.Debug("%s disappeared while opening: %v", path, err)

			return nil, sterror.E(ErrScope, operation, wrapKind(ErrMissingKernelModule, err), path)
		}

		return nil, sterror.E(ErrScope, operation, wrapKind(ErrIO, err), path)
	}

	if dev == nil {
		return nil, sterror.E(ErrScope, operation, ErrUnknown, path)
	}

	stlog.Debug("opened %s for register %#x", path, reg)

	return &Accessor{
		reg:  reg,
		cpu:  cpu,
		path: path,
		dev:  dev,
	}, nil
}

// Reg returns the register address the Accessor is bound to.
func (a *Accessor) Reg() uint32 {
	return a.reg
}

// CPU returns the logical CPU the device node was opened for.
func (a *Accessor) CPU() uint16 {
	return a.cpu
}

// Path returns the device node path.
func (a *Accessor) Path() string {
	return a.path
}

// ReadValue decodes the staging buffer. It holds the result of the last
// successful Read or the value of the last SetValue. Its content is
// unspecified after a failed Read.
func (a *Accessor) ReadValue() uint64 {
	return NativeEndian.Uint64(a.buf[:])
}

// SetValue stages v for the next Write. Nothing is sent to the device.
func (a *Accessor) SetValue(v uint64) {
	NativeEndian.PutUint64(a.buf[:], v)
}

// Read fetches the current register value. The device is seeked to the
// register address and exactly 8 bytes are read. Fewer bytes before
// end of file is an error.
func (a *Accessor) Read() (uint64, error) {
	const operation = ErrOpRead

	if a.dev == nil {
		return 0, a.ioError(operation, os.ErrClosed)
	}

	if _, err := a.dev.Seek(int64(a.reg), io.SeekStart); err != nil {
		return 0, a.ioError(operation, err)
	}

	var scratch [valueSize]byte
	if _, err := io.ReadFull(a.dev, scratch[:]); err != nil {
		return 0, a.ioError(operation, err)
	}

	a.buf = scratch

	return a.ReadValue(), nil
}

// Write sends the staged value to the register. It writes at the
// register address without using or moving the read position.
func (a *Accessor) Write() error {
	const operation = ErrOpWrite

	if a.dev == nil {
		return a.ioError(operation, os.ErrClosed)
	}

	n, err := a.dev.WriteAt(a.buf[:], int64(a.reg))
	if err != nil {
		return a.ioError(operation, err)
	}

	if n != valueSize {
		return a.ioError(operation, io.ErrShortWrite)
	}

	return nil
}

// WriteValue stages v and writes it.
func (a *Accessor) WriteValue(v uint64) error {
	a.SetValue(v)

	return a.Write()
}

// Close releases the device node. Any later call on the Accessor
// fails with os.ErrClosed.
func (a *Accessor) Close() error {
	const operation = ErrOpClose

	if a.dev == nil {
		return a.ioError(operation, os.ErrClosed)
	}

	dev := a.dev
	a.dev = nil

	if err := dev.Close(); err != nil {
		return a.ioError(operation, err)
	}

	stlog.Debug("closed %s", a.path)

	return nil
}

func (a *Accessor) ioError(op sterror.Op, err error) error {
	return sterror.E(ErrScope, op, wrapKind(ErrIO, err), a.path)
}
