package compress

import (
	"fmt"

	"github.com/vmtrace/cpuprof/format"
)

// Compressor compresses one encoded chunk document before it is written to
// its output file.
//
// Memory management:
//   - Returned slice is newly allocated and owned by the caller (the no-op
//     codec returns the input unchanged)
//   - Input slice is not modified
//   - Internal buffers may be reused for efficiency
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a chunk document from its on-disk representation.
//
// The input must have been produced by the matching Compressor; corrupted or
// mismatched data returns an error.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
//
// Every built-in codec is stateless or internally pooled and safe for
// concurrent use, so one Codec instance can serve all chunk workers of a
// split run.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
