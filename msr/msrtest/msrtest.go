// Copyright 2023 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package msrtest provides an in-memory stand-in for the per-CPU msr
// device nodes, for use in tests.
package msrtest

import (
	"errors"
	"io"
	"io/fs"
	"sync"

	"system-transparency.org/stmsr/msr"
)

const valueSize = 8

// Errors returned by Device for requests the msr driver rejects.
var (
	ErrInvalid    = errors.New("invalid argument")
	ErrNoRegister = errors.New("input/output error: register not implemented")
	ErrClosed     = fs.ErrClosed
)

// Device is a register file addressed by file offset. Reads start at
// the seek position and return whole registers, positioned writes store
// whole registers.
type Device struct {
	mu     sync.Mutex
	regs   map[uint32][valueSize]byte
	pos    int64
	served int
	closed bool

	// ReadLimit, if positive, caps the number of bytes Read hands out
	// after a Seek. Further reads report io.EOF.
	ReadLimit int
	// SeekErr, ReadErr, WriteErr and CloseErr are returned by the
	// respective method when set.
	SeekErr  error
	ReadErr  error
	WriteErr error
	CloseErr error
	// ShortWrite, if set, makes WriteAt report one byte less than
	// requested without an error.
	ShortWrite bool

	// Writes counts successful WriteAt calls.
	Writes int
}

var _ msr.Device = (*Device)(nil)

// NewDevice returns a device with no registers implemented.
func NewDevice() *Device {
	return &Device{regs: make(map[uint32][valueSize]byte)}
}

// Set implements register reg with value v.
func (d *Device) Set(reg uint32, v uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var b [valueSize]byte
	msr.NativeEndian.PutUint64(b[:], v)
	d.regs[reg] = b
}

// Value returns the value of register reg and whether it is implemented.
func (d *Device) Value(reg uint32) (uint64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.regs[reg]

	return msr.NativeEndian.Uint64(b[:]), ok
}

// Pos returns the current read position.
func (d *Device) Pos() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.pos
}

// Closed reports whether Close has been called.
func (d *Device) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.closed
}

// reopen makes a closed device usable again, like a fresh open of the
// node would. Registers and position are kept.
func (d *Device) reopen() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = false
}

func (d *Device) Seek(offset int64, whence int) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, ErrClosed
	}

	if d.SeekErr != nil {
		return 0, d.SeekErr
	}

	var next int64

	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = d.pos + offset
	default:
		return 0, ErrInvalid
	}

	if next < 0 {
		return 0, ErrInvalid
	}

	d.pos = next
	d.served = 0

	return next, nil
}

func (d *Device) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, ErrClosed
	}

	if d.ReadErr != nil {
		return 0, d.ReadErr
	}

	if d.ReadLimit > 0 {
		left := d.ReadLimit - d.served
		if left <= 0 {
			return 0, io.EOF
		}

		if len(p) > left {
			p = p[:left]
		}
	} else if len(p) < valueSize {
		return 0, ErrInvalid
	}

	b, ok := d.regs[uint32(d.pos)]
	if !ok {
		return 0, ErrNoRegister
	}

	n := copy(p, b[:])
	d.served += n
	d.pos += int64(n)

	return n, nil
}

func (d *Device) WriteAt(p []byte, off int64) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, ErrClosed
	}

	if d.WriteErr != nil {
		return 0, d.WriteErr
	}

	if len(p) != valueSize || off < 0 {
		return 0, ErrInvalid
	}

	var b [valueSize]byte
	copy(b[:], p)
	d.regs[uint32(off)] = b
	d.Writes++

	if d.ShortWrite {
		return len(p) - 1, nil
	}

	return len(p), nil
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}

	d.closed = true

	return d.CloseErr
}

// Opener serves Devices by path. Paths without a device do not exist.
// Every Open hands out the same Device, reopened if it was closed.
type Opener struct {
	mu      sync.Mutex
	dir     string
	devices map[string]*Device
	openErr map[string]error

	// ExistsErr is returned by every Exists call when set.
	ExistsErr error
	// Opens counts Open calls.
	Opens int
}

var _ msr.Opener = (*Opener)(nil)

// NewOpener returns an Opener without devices that builds paths below
// root.
func NewOpener(root string) *Opener {
	return &Opener{
		dir:     root,
		devices: make(map[string]*Device),
		openErr: make(map[string]error),
	}
}

// Add makes d available as the node of cpu and returns it.
func (o *Opener) Add(cpu uint16, d *Device) *Device {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.devices[msr.DevicePath(o.dir, cpu)] = d

	return d
}

// FailOpen makes opening the node of cpu fail with err, while the
// node is still reported as existing.
func (o *Opener) FailOpen(cpu uint16, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	path := msr.DevicePath(o.dir, cpu)
	o.openErr[path] = err

	if _, ok := o.devices[path]; !ok {
		o.devices[path] = NewDevice()
	}
}

func (o *Opener) Root() string {
	return o.dir
}

func (o *Opener) Exists(path string) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ExistsErr != nil {
		return false, o.ExistsErr
	}

	_, ok := o.devices[path]

	return ok, nil
}

func (o *Opener) Open(path string) (msr.Device, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.Opens++

	if err := o.openErr[path]; err != nil {
		return nil, &fs.PathError{Op: "open", Path: path, Err: err}
	}

	d, ok := o.devices[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}

	d.reopen()

	return d, nil
}
