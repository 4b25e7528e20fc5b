//go:build unix

package mmapfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Open maps path read-only. The file descriptor is closed immediately; the
// mapping keeps the pages alive until Close.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	// Zero-length files cannot be mapped; an empty handle behaves the same.
	size := info.Size()
	if size == 0 {
		return &File{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	return &File{data: data, mapped: true}, nil
}

// Close releases the mapping. Bytes obtained from the File, and anything
// decoded from them, must not be used afterwards.
func (f *File) Close() error {
	if !f.mapped {
		f.data = nil

		return nil
	}

	data := f.data
	f.data = nil
	f.mapped = false

	return unix.Munmap(data)
}
