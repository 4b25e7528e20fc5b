//go:build !unix

package mmapfile

import (
	"fmt"
	"os"
)

// Open reads path fully into memory on platforms without mmap support.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &File{data: data}, nil
}

// Close releases the buffered contents.
func (f *File) Close() error {
	f.data = nil

	return nil
}
