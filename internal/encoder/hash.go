package encoder

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const (
	DefaultHashDimension = 384
	hashModel            = "hash-v1"

	wordWeight    = 1.0
	trigramWeight = 0.5
)

// Hash is a local feature-hashing encoder. Each lowercase word and each
// character trigram of the padded word lands in a signed bucket; the
// result is L2-normalised. Texts sharing words or word fragments score
// higher cosine similarity.
type Hash struct {
	dim int
}

var _ Encoder = (*Hash)(nil)

// NewHash returns a hash encoder. dim <= 0 uses DefaultHashDimension.
func NewHash(dim int) *Hash {
	if dim <= 0 {
		dim = DefaultHashDimension
	}
	return &Hash{dim: dim}
}

func (h *Hash) Dimension() int { return h.dim }
func (h *Hash) Model() string  { return hashModel }

func (h *Hash) Encode(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(err)
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return nil, invalidInput(ErrNoTokens)
	}

	acc := make([]float64, h.dim)
	for _, w := range words {
		h.add(acc, "w:"+w, wordWeight)
		padded := []rune("#" + w + "#")
		for i := 0; i+3 <= len(padded); i++ {
			h.add(acc, "t:"+string(padded[i:i+3]), trigramWeight)
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	if norm == 0 {
		return nil, invalidInput(ErrNoTokens)
	}
	norm = math.Sqrt(norm)

	out := make([]float32, h.dim)
	for i, v := range acc {
		out[i] = float32(v / norm)
	}
	return out, nil
}

func (h *Hash) add(acc []float64, feature string, weight float64) {
	f := fnv.New64a()
	f.Write([]byte(feature))
	sum := f.Sum64()
	idx := int(sum % uint64(h.dim))
	if sum>>63 == 1 {
		weight = -weight
	}
	acc[idx] += weight
}
