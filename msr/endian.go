// Copyright 2023 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msr

import (
	"encoding/binary"
	"unsafe"
)

// NativeEndian is the byte order of the host. The register buffer never
// leaves the host, so values are staged in this order.
//
//nolint:gochecknoglobals
var NativeEndian binary.ByteOrder = hostByteOrder()

func hostByteOrder() binary.ByteOrder {
	probe := uint16(0x0102)
	if *(*byte)(unsafe.Pointer(&probe)) == 0x02 {
		return binary.LittleEndian
	}

	return binary.BigEndian
}
