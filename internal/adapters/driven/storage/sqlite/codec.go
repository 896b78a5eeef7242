package sqlite

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var errBlobLength = errors.New("blob length is not a multiple of 4")

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data)%4 != 0 {
		return nil, errBlobLength
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats, nil
}

// decodeEmbedding accepts both a JSON float array and a binary float32 blob.
// A binary blob may start with '[' by chance, so JSON failures fall through.
func decodeEmbedding(data []byte) ([]float32, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 1 && trimmed[0] == '[' && trimmed[len(trimmed)-1] == ']' {
		var floats []float32
		if err := json.Unmarshal(trimmed, &floats); err == nil {
			return floats, nil
		}
	}
	floats, err := bytesToFloat32Slice(data)
	if err != nil {
		return nil, fmt.Errorf("decoding embedding: %w", err)
	}
	return floats, nil
}
