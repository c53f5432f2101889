//go:build !(((linux || darwin) && cgo) || windows)

package clipboard

import "errors"

var errUnsupported = errors.New("clipboard operations require cgo on this platform")

type unsupportedStore struct{}

func newStore() store { return unsupportedStore{} }

func (unsupportedStore) init() error          { return errUnsupported }
func (unsupportedStore) read(format) []byte   { return nil }
func (unsupportedStore) write(format, []byte) {}
