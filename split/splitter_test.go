package split

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vmtrace/cpuprof/compress"
	"github.com/vmtrace/cpuprof/errs"
	"github.com/vmtrace/cpuprof/format"
	"github.com/vmtrace/cpuprof/profile"
)

const fixture = `{"nodes":[` +
	`{"id":1,"callFrame":{"functionName":"(root)"},"hitCount":0,"children":[2,3]},` +
	`{"id":2,"callFrame":{"functionName":"main"},"hitCount":4,"children":[4]},` +
	`{"id":3,"callFrame":{"functionName":"(garbage collector)"},"hitCount":1},` +
	`{"id":4,"callFrame":{"functionName":"work"},"hitCount":7}` +
	`],"startTime":1000,"endTime":2000,"samples":[2,4,4,3,2],"timeDeltas":[100,50,25,25,50]}`

func writeFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "trace.cpuprofile")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	return path
}

func TestRun(t *testing.T) {
	t.Run("WritesValidChunkFiles", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "out")

		results, err := Run(writeFixture(t), outDir, 2, Options{})
		require.NoError(t, err)
		require.Len(t, results, 2)

		// Chunk files are valid documents; their sample ranges concatenate
		// back to the source's sorted sequence.
		source, err := profile.Decode([]byte(fixture))
		require.NoError(t, err)

		var joined []profile.Sample
		for i, result := range results {
			require.Equal(t, i, result.Index)
			require.Equal(t, filepath.Join(outDir, chunkFileName(i, format.CompressionNone)), result.Path)

			data, err := os.ReadFile(result.Path)
			require.NoError(t, err)
			require.Len(t, data, result.Bytes)

			part, err := profile.Decode(data)
			require.NoError(t, err)
			require.Len(t, part.Samples, result.Samples)
			require.Len(t, part.Nodes, result.Nodes)
			require.Equal(t, source.StartTime, part.StartTime)
			require.Equal(t, source.EndTime, part.EndTime)

			joined = append(joined, part.Samples...)
		}
		require.Equal(t, source.Samples, joined)
	})

	t.Run("CreatesOutDir", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "a", "b", "c")

		_, err := Run(writeFixture(t), outDir, 1, Options{})
		require.NoError(t, err)
		require.DirExists(t, outDir)
	})

	t.Run("DeterministicDigests", func(t *testing.T) {
		input := writeFixture(t)

		first, err := Run(input, filepath.Join(t.TempDir(), "one"), 3, Options{})
		require.NoError(t, err)
		second, err := Run(input, filepath.Join(t.TempDir(), "two"), 3, Options{})
		require.NoError(t, err)

		require.Len(t, second, len(first))
		for i := range first {
			require.Equal(t, first[i].Digest, second[i].Digest)
			require.NotZero(t, first[i].Digest)
		}
	})

	t.Run("CompressedOutput", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "out")

		results, err := Run(writeFixture(t), outDir, 2, Options{Compression: format.CompressionZstd})
		require.NoError(t, err)

		codec, err := compress.GetCodec(format.CompressionZstd)
		require.NoError(t, err)

		for _, result := range results {
			require.Equal(t, ".zst", filepath.Ext(result.Path))

			data, err := os.ReadFile(result.Path)
			require.NoError(t, err)

			restored, err := codec.Decompress(data)
			require.NoError(t, err)

			part, err := profile.Decode(restored)
			require.NoError(t, err)
			require.Len(t, part.Samples, result.Samples)
		}
	})

	t.Run("SingleChunkMatchesSource", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "out")

		results, err := Run(writeFixture(t), outDir, 1, Options{})
		require.NoError(t, err)
		require.Len(t, results, 1)

		data, err := os.ReadFile(results[0].Path)
		require.NoError(t, err)
		require.Equal(t, fixture, string(data))
	})

	t.Run("MissingInput", func(t *testing.T) {
		_, err := Run(filepath.Join(t.TempDir(), "nope"), t.TempDir(), 1, Options{})
		require.Error(t, err)
	})

	t.Run("UndecodableInput", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.cpuprofile")
		require.NoError(t, os.WriteFile(path, []byte(`{"nodes":[]}`), 0o644))

		_, err := Run(path, t.TempDir(), 1, Options{})
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrMissingField)
		require.ErrorContains(t, err, path)
	})

	t.Run("InvalidChunkCount", func(t *testing.T) {
		_, err := Run(writeFixture(t), t.TempDir(), 0, Options{})
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrInvalidChunkCount)
	})
}

func TestChunkFileName(t *testing.T) {
	require.Equal(t, "part1.cpuprofile", chunkFileName(0, format.CompressionNone))
	require.Equal(t, "part3.cpuprofile.lz4", chunkFileName(2, format.CompressionLZ4))
}
