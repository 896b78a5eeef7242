package bruteforce

import "math"

// Cosine returns the cosine similarity of a and b in [-1, 1].
// It returns 0 when either vector has zero norm or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	return cosineFromParts(dot, na, nb)
}

// cosineFromParts divides by the square root of the product of squared
// norms, which keeps cosine(a, a) at exactly 1.
func cosineFromParts(dot, na2, nb2 float64) float64 {
	if na2 == 0 || nb2 == 0 {
		return 0
	}
	c := dot / math.Sqrt(na2*nb2)
	switch {
	case c > 1:
		return 1
	case c < -1:
		return -1
	case math.IsNaN(c):
		return 0
	}
	return c
}

// squaredNorm returns the squared L2 norm of v.
func squaredNorm(v []float32) float64 {
	var n float64
	for _, x := range v {
		f := float64(x)
		n += f * f
	}
	return n
}
