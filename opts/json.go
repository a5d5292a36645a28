package opts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"system-transparency.org/stmsr/sterror"
	"system-transparency.org/stmsr/stlog"
)

// Operations used for raising Errors of this package.
const (
	ErrOpJSON sterror.Op = "load json"
	ErrOpFile sterror.Op = "load file"
)

// Errors which may be raised and wrapped in this package.
const (
	ErrNoSource  = Error("no configuration source")
	ErrMalformed = Error("malformed configuration")
)

// WithJSON returns a Loader decoding a JSON document from r. Keys
// missing in the document keep their current value, unknown keys are
// an error.
func WithJSON(r io.Reader) Loader {
	return LoaderFunc(func(o *Opts) error {
		const operation = ErrOpJSON

		if r == nil {
			return sterror.E(sterror.Opts, operation, ErrNoSource)
		}

		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()

		loaded := *o
		if err := dec.Decode(&loaded); err != nil {
			return sterror.E(sterror.Opts, operation, fmt.Errorf("%w: %v", ErrMalformed, err))
		}

		*o = loaded

		return nil
	})
}

// WithFile returns a Loader reading a JSON document from path. A
// missing file is skipped, the configuration file is optional.
func WithFile(path string) Loader {
	return LoaderFunc(func(o *Opts) error {
		const operation = ErrOpFile

		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			stlog.Debug("no configuration at %s, using defaults", path)

			return nil
		}

		if err != nil {
			return sterror.E(sterror.Opts, operation, err, path)
		}
		defer f.Close()

		if err := WithJSON(f).Load(o); err != nil {
			return sterror.E(sterror.Opts, operation, err, path)
		}

		stlog.Debug("loaded configuration from %s", path)

		return nil
	})
}
