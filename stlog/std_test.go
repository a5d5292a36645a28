// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stlog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func emit(l levelLogger, at LogLevel, msg string) {
	switch at {
	case ErrorLevel:
		l.error("%s", msg)
	case WarnLevel:
		l.warn("%s", msg)
	case InfoLevel:
		l.info("%s", msg)
	default:
		l.debug("%s", msg)
	}
}

func TestStandardLoggerMessages(t *testing.T) {
	for _, tt := range []struct {
		name  string
		level LogLevel
		tag   string
	}{
		{name: "error", level: ErrorLevel, tag: errorTag},
		{name: "warn", level: WarnLevel, tag: warnTag},
		{name: "info", level: InfoLevel, tag: infoTag},
		{name: "debug", level: DebugLevel, tag: debugTag},
		{name: "unknown level logs as debug", level: 5, tag: debugTag},
	} {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newStandardLogger(&buf)

			emit(l, tt.level, "register 0x10 on cpu 0")

			assert.Equal(t, tt.tag+prefix+"register 0x10 on cpu 0\n", buf.String())
		})
	}
}

func TestStandardLoggerLevel(t *testing.T) {
	all := []LogLevel{ErrorLevel, WarnLevel, InfoLevel, DebugLevel}

	for _, level := range all {
		for _, at := range all {
			var buf bytes.Buffer
			l := newStandardLogger(&buf)
			l.setLevel(level)

			emit(l, at, "foo")

			if at <= level {
				assert.NotEmpty(t, buf.String(), "level %v should print %v messages", level, at)
			} else {
				assert.Empty(t, buf.String(), "level %v should drop %v messages", level, at)
			}
		}
	}
}
