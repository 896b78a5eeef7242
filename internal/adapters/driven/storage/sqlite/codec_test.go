package sqlite

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat32Blob_RoundTrip(t *testing.T) {
	in := []float32{0, 1, -1, 0.68, math.MaxFloat32}

	out, err := bytesToFloat32Slice(float32SliceToBytes(in))

	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFloat32Blob_Empty(t *testing.T) {
	assert.Nil(t, float32SliceToBytes(nil))

	out, err := bytesToFloat32Slice(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestDecodeEmbedding(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected []float32
		wantErr  bool
	}{
		{"json array", []byte("[0.5, -1, 2]"), []float32{0.5, -1, 2}, false},
		{"json with whitespace", []byte("  [1]\n"), []float32{1}, false},
		{"binary", float32SliceToBytes([]float32{3, 4}), []float32{3, 4}, false},
		{"truncated binary", []byte{1, 2, 3}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeEmbedding(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecodeEmbedding_BinaryStartingWithBracket(t *testing.T) {
	// 0x5B is '[' and 0x5D is ']'.
	blob := []byte{0x5B, 0x00, 0x00, 0x3F, 0x00, 0x00, 0x00, 0x5D}

	got, err := decodeEmbedding(blob)

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		year int
	}{
		{"2025-01-15T10:30:00Z", 2025},
		{"2025-01-15T10:30:00.000Z", 2025},
		{"2024-03-01T08:00:00.123456", 2024},
		{"2023-06-01 12:00:00", 2023},
		{"2022-12-31", 2022},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.year, parseTime(tt.in).Year())
		})
	}

	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("yesterday").IsZero())
}
