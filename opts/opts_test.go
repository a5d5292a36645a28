package opts

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"system-transparency.org/stmsr/msr"
	"system-transparency.org/stmsr/sterror"
	"system-transparency.org/stmsr/stlog"
)

const errFakeLoader = Error("fake Loader error")

func defaults() *Opts {
	return &Opts{
		DeviceRoot: msr.DefaultRoot,
		LogLevel:   DefaultLogLevel,
		LogOutput:  DefaultLogOutput,
	}
}

func TestNewOpts(t *testing.T) {
	tests := []struct {
		name    string
		loaders []Loader
		want    *Opts
		wantErr error
	}{
		{
			name:    "no Loaders",
			loaders: []Loader{},
			want:    defaults(),
		},
		{
			name:    "failing Loader",
			loaders: []Loader{LoaderFunc(func(o *Opts) error { return errFakeLoader })},
			want:    nil,
			wantErr: errFakeLoader,
		},
		{
			name: "later Loaders win",
			loaders: []Loader{
				WithDeviceRoot("/a"),
				WithDeviceRoot("/b"),
				WithLogLevel("d"),
				WithSyslog(true),
			},
			want: &Opts{DeviceRoot: "/b", LogLevel: "d", LogOutput: OutputSyslog},
		},
		{
			name: "empty overrides are ignored",
			loaders: []Loader{
				WithDeviceRoot(""),
				WithLogLevel(""),
				WithSyslog(false),
			},
			want: defaults(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewOpts(tt.loaders...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithJSON(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    *Opts
		wantErr error
	}{
		{
			name: "all fields set",
			file: "testdata/good_all_set.json",
			want: &Opts{DeviceRoot: "/run/fake-cpu", LogLevel: "debug", LogOutput: OutputSyslog},
		},
		{
			name: "partial document keeps defaults",
			file: "testdata/good_partial.json",
			want: &Opts{DeviceRoot: msr.DefaultRoot, LogLevel: "w", LogOutput: OutputStderr},
		},
		{
			name:    "unknown key",
			file:    "testdata/bad_unknown_key.json",
			wantErr: ErrMalformed,
		},
		{
			name:    "wrong type",
			file:    "testdata/bad_type.json",
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := os.ReadFile(tt.file)
			require.NoError(t, err)

			got, err := NewOpts(WithJSON(bytes.NewReader(src)))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithJSONNoSource(t *testing.T) {
	_, err := NewOpts(WithJSON(nil))
	assert.ErrorIs(t, err, ErrNoSource)

	var stErr sterror.Error
	require.True(t, errors.As(err, &stErr))
	assert.Equal(t, sterror.Opts, stErr.Scope)
	assert.Equal(t, ErrOpJSON, stErr.Op)
}

func TestWithJSONFailureLeavesOptsUntouched(t *testing.T) {
	o := defaults()
	err := WithJSON(strings.NewReader(`{"log_level": "d", "bogus": 1}`)).Load(o)

	assert.ErrorIs(t, err, ErrMalformed)
	assert.Equal(t, defaults(), o)
}

func TestWithFile(t *testing.T) {
	t.Run("missing file is skipped", func(t *testing.T) {
		got, err := NewOpts(WithFile(filepath.Join(t.TempDir(), "none.json")))
		require.NoError(t, err)
		assert.Equal(t, defaults(), got)
	})

	t.Run("file is loaded", func(t *testing.T) {
		got, err := NewOpts(WithFile("testdata/good_all_set.json"))
		require.NoError(t, err)
		assert.Equal(t, "/run/fake-cpu", got.DeviceRoot)
	})

	t.Run("bad file reports path", func(t *testing.T) {
		_, err := NewOpts(WithFile("testdata/bad_type.json"))
		assert.ErrorIs(t, err, ErrMalformed)
		assert.Contains(t, err.Error(), "testdata/bad_type.json")
	})

	t.Run("directory is an error", func(t *testing.T) {
		_, err := NewOpts(WithFile(t.TempDir()))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(o *Opts)
		want error
	}{
		{name: "defaults", mod: func(o *Opts) {}},
		{name: "short level", mod: func(o *Opts) { o.LogLevel = "E" }},
		{name: "syslog", mod: func(o *Opts) { o.LogOutput = OutputSyslog }},
		{name: "empty root", mod: func(o *Opts) { o.DeviceRoot = "" }, want: ErrMissingDevRoot},
		{name: "relative root", mod: func(o *Opts) { o.DeviceRoot = "dev/cpu" }, want: ErrRelativeRoot},
		{name: "unknown level", mod: func(o *Opts) { o.LogLevel = "trace" }, want: ErrUnknownLevel},
		{name: "unknown output", mod: func(o *Opts) { o.LogOutput = "file" }, want: ErrUnknownOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaults()
			tt.mod(o)

			err := o.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]stlog.LogLevel{
		"e": stlog.ErrorLevel, "error": stlog.ErrorLevel,
		"w": stlog.WarnLevel, "WARN": stlog.WarnLevel,
		"i": stlog.InfoLevel, "info": stlog.InfoLevel,
		"d": stlog.DebugLevel, "Debug": stlog.DebugLevel,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestApply(t *testing.T) {
	prev := stlog.Level()
	t.Cleanup(func() { stlog.SetLevel(prev) })

	o := defaults()
	o.LogLevel = "warn"

	require.NoError(t, o.Apply())
	assert.Equal(t, stlog.WarnLevel, stlog.Level())

	o.LogLevel = "nope"
	assert.ErrorIs(t, o.Apply(), ErrUnknownLevel)
	assert.Equal(t, stlog.WarnLevel, stlog.Level())
}

func TestOpener(t *testing.T) {
	o := defaults()
	o.DeviceRoot = "/run/fake-cpu"

	assert.Equal(t, "/run/fake-cpu", o.Opener().Root())
}
