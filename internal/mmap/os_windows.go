//go:build windows

package mmap

import (
	"io"
	"os"
)

// Windows fallback: read the file into memory instead of mapping it.
// Snapshot blobs are read once and fully, so this costs one extra copy.
func osMap(f *os.File, size int) ([]byte, func([]byte) error, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, nil, err
	}

	return data, func([]byte) error { return nil }, nil
}
