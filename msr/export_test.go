package msr

// SwapDefaultOpener replaces the opener used by New and returns a
// function restoring the previous one.
func SwapDefaultOpener(o Opener) (restore func()) {
	prev := defaultOpener
	defaultOpener = o

	return func() { defaultOpener = prev }
}
