package encoder

import (
	"context"
	"fmt"
)

// OllamaClient is the part of pkg/ollama the encoder needs.
type OllamaClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// Ollama encodes with a self-hosted sentence embedding model.
type Ollama struct {
	client OllamaClient
	dim    int
}

var _ Encoder = (*Ollama)(nil)

func NewOllama(client OllamaClient, dim int) *Ollama {
	return &Ollama{client: client, dim: dim}
}

func (o *Ollama) Dimension() int { return o.dim }
func (o *Ollama) Model() string  { return "ollama/" + o.client.Model() }

func (o *Ollama) Encode(ctx context.Context, text string) ([]float32, error) {
	vec, err := o.client.Embed(ctx, text)
	if err != nil {
		return nil, classify(err)
	}
	if len(vec) != o.dim {
		return nil, &Error{Kind: KindBackend, Err: fmt.Errorf("%w: got %d, want %d", ErrBadDimension, len(vec), o.dim)}
	}
	return vec, nil
}
