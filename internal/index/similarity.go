package index

import (
	"fmt"
	"math"

	"intent-router/internal/model"
)

// Cosine returns the cosine similarity of a and b in [-1, 1]. Zero vectors score 0.
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	s := dot / math.Sqrt(na*nb)
	switch {
	case s > 1:
		return 1
	case s < -1:
		return -1
	}
	return s
}

// CheckQuery validates the arguments shared by every Search implementation.
func CheckQuery(dim int, query []float32, topK int) error {
	if topK < 1 {
		return ErrInvalidTopK
	}
	if len(query) != dim {
		return fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), dim)
	}
	return nil
}

// CheckEntries verifies every entry carries a vector of the index dimension.
func CheckEntries(dim int, entries []model.IndexEntry) error {
	for _, e := range entries {
		if e.Dim() != dim {
			return fmt.Errorf("%w: %q/%q has %d, index has %d", ErrDimensionMismatch, e.RouteName, e.Utterance, e.Dim(), dim)
		}
	}
	return nil
}
