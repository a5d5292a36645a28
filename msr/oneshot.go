// Copyright 2023 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msr

// ReadMSR reads register reg on cpu as a one-time operation.
func ReadMSR(cpu uint16, reg uint32) (uint64, error) {
	a, err := New(reg, cpu)
	if err != nil {
		return 0, err
	}

	defer a.Close()

	return a.Read()
}

// WriteMSR writes val to register reg on cpu as a one-time operation.
func WriteMSR(cpu uint16, reg uint32, val uint64) error {
	a, err := New(reg, cpu)
	if err != nil {
		return err
	}

	defer a.Close()

	return a.WriteValue(val)
}
