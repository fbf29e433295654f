package encoder

import (
	"context"
	"math"
	"testing"
)

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return dot / math.Sqrt(na*nb)
}

func TestHashEncode(t *testing.T) {
	ctx := context.Background()
	h := NewHash(0)

	if h.Dimension() != DefaultHashDimension {
		t.Fatalf("expected default dimension, got %d", h.Dimension())
	}

	t.Run("Deterministic", func(t *testing.T) {
		a, err := h.Encode(ctx, "What is your return policy?")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, _ := h.Encode(ctx, "What is your return policy?")
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("vectors differ at %d", i)
			}
		}
	})

	t.Run("Unit Length", func(t *testing.T) {
		v, _ := h.Encode(ctx, "Show me Nike shoes")
		var n float64
		for _, x := range v {
			n += float64(x) * float64(x)
		}
		if math.Abs(n-1) > 1e-5 {
			t.Errorf("expected unit norm, got %f", n)
		}
	})

	t.Run("Case And Punctuation Insensitive", func(t *testing.T) {
		a, _ := h.Encode(ctx, "Return Policy!")
		b, _ := h.Encode(ctx, "return policy")
		if c := cosine(a, b); c < 0.9999 {
			t.Errorf("expected near-identical vectors, cosine %f", c)
		}
	})

	t.Run("Related Texts Score Higher", func(t *testing.T) {
		q, _ := h.Encode(ctx, "what is the refund policy")
		faq, _ := h.Encode(ctx, "What is your refund policy?")
		sql, _ := h.Encode(ctx, "Show me shoes under 3000")
		if cosine(q, faq) <= cosine(q, sql) {
			t.Errorf("expected faq utterance closer: faq=%f sql=%f", cosine(q, faq), cosine(q, sql))
		}
	})

	t.Run("No Tokens", func(t *testing.T) {
		_, err := h.Encode(ctx, "?!  ...")
		if k, ok := KindOf(err); !ok || k != KindInvalidInput {
			t.Fatalf("expected invalid input error, got %v", err)
		}
	})

	t.Run("Canceled Context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := h.Encode(cctx, "hello"); err == nil {
			t.Fatal("expected error on canceled context")
		}
	})
}
