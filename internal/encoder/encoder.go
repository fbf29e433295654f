// Package encoder turns text into fixed-dimension embedding vectors.
package encoder

import (
	"context"
	"fmt"
)

// Encoder maps text to a vector of length Dimension(). Identical input
// yields identical output.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Model() string
}

// Fingerprint identifies the vector space an encoder produces.
func Fingerprint(e Encoder) string {
	return fmt.Sprintf("%s:%d", e.Model(), e.Dimension())
}
