package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]CompressionType{
		"none": CompressionNone,
		"":     CompressionNone,
		"zstd": CompressionZstd,
		"s2":   CompressionS2,
		"lz4":  CompressionLZ4,
	} {
		got, err := ParseCompression(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseCompression("brotli")
	require.Error(t, err)
	require.ErrorContains(t, err, "brotli")
}

func TestCompressionType_Strings(t *testing.T) {
	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "Unknown", CompressionType(0xff).String())

	require.Equal(t, "", CompressionNone.Extension())
	require.Equal(t, ".zst", CompressionZstd.Extension())
	require.Equal(t, ".s2", CompressionS2.Extension())
	require.Equal(t, ".lz4", CompressionLZ4.Extension())
}
