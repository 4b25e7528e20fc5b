// Package compress provides the output codecs applied to encoded chunk
// documents before they are written to disk.
//
// A split run encodes each chunk to compact JSON first; compression is a
// second, optional stage selected by format.CompressionType:
//   - None: chunk files are plain .cpuprofile documents (the default)
//   - Zstd: best ratio, moderate speed
//   - S2: balanced ratio and speed
//   - LZ4: fastest decompression, moderate ratio
//
// JSON call-tree documents are highly repetitive (shared call-frame strings,
// runs of small integers), so even the fast codecs typically shrink a chunk
// severalfold.
//
// All codecs implement the Codec interface and are safe for concurrent use;
// GetCodec returns the shared built-in instance for a compression type.
//
// The Zstd codec has two implementations selected at build time: the default
// pure-Go one (klauspost/compress/zstd) and a cgo one (valyala/gozstd) behind
// the gozstd build tag for workloads where the C library's speed matters.
package compress
