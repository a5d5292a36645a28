// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stlog

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKernelLogger(t *testing.T) {
	if os.Getuid() != 0 {
		t.Skip("root required for this test")
	}

	for _, level := range []LogLevel{ErrorLevel, WarnLevel, InfoLevel, DebugLevel, 5} {
		t.Run(level.String(), func(t *testing.T) {
			l, err := newKernelLogger()
			require.NoError(t, err)

			l.setLevel(level)
			emit(l, level, "kernel logger test")
		})
	}
}
