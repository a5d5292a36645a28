// Copyright 2023 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msr

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultRoot is the directory holding the per-CPU device directories
// created by the msr kernel module.
const DefaultRoot = "/dev/cpu"

// Device is an open per-CPU MSR node. The file offset is the register
// address: reads use the seek position, writes are positioned.
type Device interface {
	io.ReadSeeker
	io.WriterAt
	io.Closer
}

// Opener provides access to device nodes. It is the only way this
// package touches the filesystem.
type Opener interface {
	// Exists reports whether the node at path is present. A missing
	// node is not an error.
	Exists(path string) (bool, error)
	// Open opens the node at path for reading and writing.
	Open(path string) (Device, error)
	// Root is the directory DevicePath builds node paths in.
	Root() string
}

// DevicePath returns the node for cpu below root, i.e. /dev/cpu/<cpu>/msr
// for DefaultRoot.
func DevicePath(root string, cpu uint16) string {
	return filepath.Join(root, strconv.FormatUint(uint64(cpu), 10), "msr")
}

// OSOpener opens device nodes on the host filesystem.
type OSOpener struct {
	// Dir overrides DefaultRoot if set.
	Dir string
}

var _ Opener = OSOpener{}

func (o OSOpener) Root() string {
	if o.Dir == "" {
		return DefaultRoot
	}

	return o.Dir
}

func (o OSOpener) Exists(path string) (bool, error) {
	_, err := os.Stat(path)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Open never creates the node and never changes its permissions.
func (o OSOpener) Open(path string) (Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	return f, nil
}
