package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{name: "identical vectors", a: []float64{1, 2, 3}, b: []float64{1, 2, 3}, want: 1.0},
		{name: "orthogonal vectors", a: []float64{1, 0}, b: []float64{0, 1}, want: 0.0},
		{name: "opposite vectors", a: []float64{1, 0}, b: []float64{-1, 0}, want: -1.0},
		{name: "mismatched lengths", a: []float64{1, 2}, b: []float64{1, 2, 3}, want: 0.0},
		{name: "empty vectors", a: nil, b: nil, want: 0.0},
		{name: "zero vector", a: []float64{0, 0}, b: []float64{1, 1}, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0.0, CosineDistance([]float64{1, 2, 3}, []float64{1, 2, 3}), 1e-9)
	assert.InDelta(t, 1.0, CosineDistance([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, 2.0, CosineDistance([]float64{1, 0}, []float64{-1, 0}), 1e-9)
}

func TestNormalize(t *testing.T) {
	normalized := Normalize([]float64{3, 4})
	assert.InDelta(t, 0.6, normalized[0], 1e-9)
	assert.InDelta(t, 0.8, normalized[1], 1e-9)

	var norm float64
	for _, x := range normalized {
		norm += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestNormalize_Degenerate(t *testing.T) {
	assert.Empty(t, Normalize(nil))
	assert.Equal(t, []float64{0, 0}, Normalize([]float64{0, 0}))
}
