package hash

import "github.com/cespare/xxhash/v2"

// Digest computes the xxHash64 of an encoded chunk payload. The digest is
// taken over the uncompressed bytes, so it identifies the chunk's content
// regardless of the output codec.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}
