// Package split orchestrates splitting one .cpuprofile file into N
// independently loadable chunk files.
//
// The input is memory-mapped and decoded exactly once; the immutable Profile
// is then shared read-only by one worker per chunk, each encoding and
// writing its own output file. Chunk tasks are fully independent: a failing
// chunk never cancels its siblings, and Run reports the first failure only
// after every task has finished. Output files of successful siblings are
// left on disk and are not rolled back.
package split

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vmtrace/cpuprof/compress"
	"github.com/vmtrace/cpuprof/format"
	"github.com/vmtrace/cpuprof/internal/hash"
	"github.com/vmtrace/cpuprof/internal/mmapfile"
	"github.com/vmtrace/cpuprof/profile"
)

// Options configure a split run.
type Options struct {
	// Compression selects the codec applied to each encoded chunk before it
	// is written. The zero value means CompressionNone, which keeps output
	// files byte-identical to uncompressed .cpuprofile documents.
	Compression format.CompressionType

	// Logger receives per-chunk progress. Nil disables logging.
	Logger *zap.Logger
}

// Result describes one successfully written chunk.
type Result struct {
	Index   int    // zero-based chunk index
	Path    string // output file path
	Samples int    // samples carried by the chunk
	Nodes   int    // size of the chunk's node closure
	Bytes   int    // bytes written to disk, after compression
	Digest  uint64 // xxHash64 of the encoded, uncompressed chunk document
}

// Run splits the trace at inputPath into up to chunkCount files named
// part1.cpuprofile, part2.cpuprofile, ... under outDir, creating outDir if
// needed. Compressed runs append the codec's suffix to each file name.
//
// Results are returned in chunk order. On failure Run returns the first
// chunk error (wrapped with the chunk number and path), but only after every
// chunk task has completed.
func Run(inputPath, outDir string, chunkCount int, opts Options) ([]Result, error) {
	if opts.Compression == 0 {
		opts.Compression = format.CompressionNone
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	codec, err := compress.GetCodec(opts.Compression)
	if err != nil {
		return nil, err
	}

	src, err := mmapfile.Open(inputPath)
	if err != nil {
		return nil, err
	}
	// The profile and every chunk borrow from the mapping; it is released
	// only after all workers have finished.
	defer src.Close()

	prof, err := profile.Decode(src.Bytes())
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", inputPath, err)
	}

	chunks, err := prof.Chunks(chunkCount)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", outDir, err)
	}

	logger.Info("splitting profile",
		zap.String("input", inputPath),
		zap.Int("samples", len(prof.Samples)),
		zap.Int("nodes", len(prof.Nodes)),
		zap.Int("chunks", len(chunks)),
		zap.Stringer("compression", opts.Compression),
	)

	// A plain errgroup (no shared context): every chunk runs to completion
	// regardless of sibling failures, and Wait surfaces the first error once
	// all are done.
	results := make([]Result, len(chunks))
	var group errgroup.Group
	for index, chunk := range chunks {
		path := filepath.Join(outDir, chunkFileName(index, opts.Compression))
		group.Go(func() error {
			result, err := writeChunk(chunk, path, codec)
			if err != nil {
				return fmt.Errorf("chunk %d (%s): %w", index+1, path, err)
			}
			result.Index = index
			results[index] = result

			logger.Info("wrote chunk",
				zap.Int("chunk", index+1),
				zap.String("path", path),
				zap.Int("samples", result.Samples),
				zap.Int("nodes", result.Nodes),
				zap.Int("bytes", result.Bytes),
				zap.Uint64("digest", result.Digest),
			)

			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func writeChunk(chunk *profile.Chunk, path string, codec compress.Codec) (Result, error) {
	encoder := profile.NewEncoder()
	defer encoder.Close()

	var buf bytes.Buffer
	if err := encoder.EncodeChunk(&buf, chunk); err != nil {
		return Result{}, err
	}
	encoded := buf.Bytes()
	digest := hash.Digest(encoded)

	out, err := codec.Compress(encoded)
	if err != nil {
		return Result{}, err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return Result{}, err
	}

	return Result{
		Path:    path,
		Samples: len(chunk.Samples()),
		Nodes:   chunk.IncludedCount(),
		Bytes:   len(out),
		Digest:  digest,
	}, nil
}

func chunkFileName(index int, compression format.CompressionType) string {
	return fmt.Sprintf("part%d.cpuprofile%s", index+1, compression.Extension())
}
