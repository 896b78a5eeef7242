package bruteforce

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero left", []float32{0, 0}, []float32{1, 1}, 0},
		{"zero right", []float32{1, 1}, []float32{0, 0}, 0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func randomVector(r *rand.Rand, dims int) []float32 {
	v := make([]float32, dims)
	for i := range v {
		v[i] = r.Float32()*2 - 1
	}
	return v
}

func TestCosine_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	zero := make([]float32, 16)

	for i := 0; i < 200; i++ {
		a := randomVector(r, 16)
		b := randomVector(r, 16)

		assert.Equal(t, Cosine(a, b), Cosine(b, a), "symmetric")
		assert.Equal(t, 1.0, Cosine(a, a), "self similarity")
		assert.Equal(t, 0.0, Cosine(zero, b), "zero vector")

		c := Cosine(a, b)
		assert.GreaterOrEqual(t, c, -1.0)
		assert.LessOrEqual(t, c, 1.0)
	}
}

func TestCosineFromParts_Clamps(t *testing.T) {
	assert.Equal(t, 1.0, cosineFromParts(2, 1, 1))
	assert.Equal(t, -1.0, cosineFromParts(-2, 1, 1))
	assert.Equal(t, 0.0, cosineFromParts(1, 0, 1))
}
