// Package embedding holds the vector math shared by the authenticity
// ensemble and the gallery matcher.
package embedding

import (
	"math"
)

// Cosine calculates the cosine similarity between two embedding vectors.
// Returns a value between -1.0 (opposite) and 1.0 (identical). Mismatched
// or empty vectors score 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineDistance is 1 - Cosine, the distance metric the ensemble thresholds
// are calibrated against.
func CosineDistance(a, b []float64) float64 {
	return 1.0 - Cosine(a, b)
}

// Normalize scales an embedding to unit length for consistent comparisons.
func Normalize(v []float64) []float64 {
	if len(v) == 0 {
		return v
	}

	var norm float64
	for _, x := range v {
		norm += x * x
	}

	if norm == 0 {
		return v
	}

	norm = math.Sqrt(norm)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}

	return out
}
