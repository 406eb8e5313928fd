// Package mmap provides read-only memory mapping of local files.
// It backs the local blob store so that snapshot reads avoid double
// buffering through user-space copies.
package mmap

import (
	"os"
)

// Mapping is a read-only mapping of a file's contents.
type Mapping struct {
	f     *os.File
	data  []byte
	unmap func([]byte) error
}

// Open maps the file at path read-only.
// An empty file yields a valid mapping with zero-length Bytes.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	size := int(fi.Size())
	if size == 0 {
		return &Mapping{f: f}, nil
	}

	data, unmap, err := osMap(f, size)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Mapping{f: f, data: data, unmap: unmap}, nil
}

// Bytes returns the mapped content. Valid until Close.
func (m *Mapping) Bytes() []byte { return m.data }

// Close unmaps the file and releases the descriptor.
func (m *Mapping) Close() error {
	var unmapErr error
	if m.unmap != nil && m.data != nil {
		unmapErr = m.unmap(m.data)
		m.data = nil
		m.unmap = nil
	}
	closeErr := m.f.Close()
	if unmapErr != nil {
		return unmapErr
	}
	return closeErr
}
