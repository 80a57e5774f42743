// Package recommend ranks grant programs against a startup description by
// cosine similarity of sentence embeddings.
package recommend

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Embedder turns texts into fixed-length vectors. Implementations must be
// safe for concurrent use.
type Embedder interface {
	// Embed returns one vector per text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	// Model names the embedding model.
	Model() string
}

// DefaultHashingDimensions is the vector length of the hashing embedder.
const DefaultHashingDimensions = 384

// HashingEmbedder is a deterministic local embedder. Lower-cased words and
// their character trigrams are hashed with FNV-1a into signed buckets and the
// result is L2-normalised, so texts sharing vocabulary score higher.
type HashingEmbedder struct {
	dims int
}

var _ Embedder = (*HashingEmbedder)(nil)

// NewHashingEmbedder returns a HashingEmbedder producing vectors of length
// dims, or DefaultHashingDimensions when dims is not positive.
func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = DefaultHashingDimensions
	}
	return &HashingEmbedder{dims: dims}
}

// Model returns the embedder name.
func (e *HashingEmbedder) Model() string {
	return "local-hashing"
}

// Embed hashes every text. It never fails unless ctx is done.
func (e *HashingEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e *HashingEmbedder) embed(text string) []float64 {
	vec := make([]float64, e.dims)
	for _, word := range tokenize(text) {
		e.add(vec, word, 1)
		padded := []rune("#" + word + "#")
		for i := 0; i+3 <= len(padded); i++ {
			e.add(vec, string(padded[i:i+3]), 0.5)
		}
	}
	normalize(vec)
	return vec
}

func (e *HashingEmbedder) add(vec []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	bucket := int(sum % uint64(e.dims))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[bucket] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}
