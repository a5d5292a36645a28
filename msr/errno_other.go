// Copyright 2023 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix

package msr

func noDevice(err error) bool {
	return false
}
