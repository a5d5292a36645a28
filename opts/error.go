package opts

// Error reports problems while loading and validating configuration data.
type Error string

// Error implements error interface.
func (e Error) Error() string {
	return string(e)
}

// InvalidError reports invalid data of Opts.
type InvalidError string

// Error implements error interface.
func (e InvalidError) Error() string {
	return string(e)
}
