// Copyright 2023 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package msr

import (
	"errors"

	"golang.org/x/sys/unix"
)

// noDevice reports whether an open failure means the driver behind the
// node is gone, e.g. the module was unloaded between stat and open.
func noDevice(err error) bool {
	return errors.Is(err, unix.ENODEV) || errors.Is(err, unix.ENXIO)
}
