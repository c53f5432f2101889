//go:build ((linux || darwin) && cgo) || windows

package clipboard

import "golang.design/x/clipboard"

type systemStore struct{}

func newStore() store { return systemStore{} }

func (systemStore) init() error { return clipboard.Init() }

func (systemStore) read(f format) []byte { return clipboard.Read(systemFormat(f)) }

func (systemStore) write(f format, data []byte) { clipboard.Write(systemFormat(f), data) }

func systemFormat(f format) clipboard.Format {
	if f == formatImage {
		return clipboard.FmtImage
	}
	return clipboard.FmtText
}
