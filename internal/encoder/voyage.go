package encoder

import (
	"context"
	"fmt"

	"intent-router/pkg/voyage"
)

// Voyage encodes through the Voyage embeddings API.
type Voyage struct {
	client voyage.IVoyage
	dim    int
}

var _ Encoder = (*Voyage)(nil)

// NewVoyage wraps a Voyage client that returns vectors of length dim.
func NewVoyage(client voyage.IVoyage, dim int) *Voyage {
	return &Voyage{client: client, dim: dim}
}

func (v *Voyage) Dimension() int { return v.dim }
func (v *Voyage) Model() string  { return "voyage/" + v.client.Model() }

func (v *Voyage) Encode(ctx context.Context, text string) ([]float32, error) {
	vecs, err := v.client.Embed(ctx, []string{text}, voyage.InputTypeQuery)
	if err != nil {
		return nil, classify(err)
	}
	if len(vecs) != 1 || len(vecs[0]) != v.dim {
		return nil, &Error{Kind: KindBackend, Err: fmt.Errorf("%w: want %d", ErrBadDimension, v.dim)}
	}
	return vecs[0], nil
}
