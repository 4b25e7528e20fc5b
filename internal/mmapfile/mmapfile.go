// Package mmapfile provides a read-only view of a file's contents,
// memory-mapped where the platform supports it.
//
// The cpuprof decoder borrows opaque payload spans straight from the bytes it
// is given, so the File backing a decoded profile must stay open for the
// profile's whole lifetime.
package mmapfile

// File holds the file's bytes, either as a live mapping or as a plain read
// on platforms without mmap.
type File struct {
	data   []byte
	mapped bool
}

// Bytes returns the file's contents. The slice is valid until Close and must
// be treated as read-only.
func (f *File) Bytes() []byte {
	return f.data
}
