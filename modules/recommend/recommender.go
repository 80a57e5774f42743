package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// TopK is the number of recommendations returned.
const TopK = 5

var (
	// ErrEmptyCandidateSet is returned when there is nothing to rank.
	ErrEmptyCandidateSet = errors.New("no grants available")
	// ErrDimensionMismatch is returned when the embedder yields vectors of unequal length.
	ErrDimensionMismatch = errors.New("embedding dimensions do not match")
)

// Candidate is a grant program to rank.
type Candidate struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Recommendation is a ranked candidate.
type Recommendation struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description string  `json:"description"`
	Similarity  float64 `json:"similarity"`
}

// Recommender ranks candidates by similarity to a description.
type Recommender struct {
	embedder Embedder
}

// NewRecommender creates a Recommender over embedder.
func NewRecommender(embedder Embedder) *Recommender {
	return &Recommender{embedder: embedder}
}

// Model names the underlying embedding model.
func (r *Recommender) Model() string {
	return r.embedder.Model()
}

// Recommend returns at most TopK candidates ordered by descending cosine
// similarity to description. Equal scores keep input order. Similarities are
// rounded to 4 decimals within [-1, 1].
func (r *Recommender) Recommend(ctx context.Context, description string, candidates []Candidate) ([]Recommendation, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidateSet
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Description
	}

	var query []float64
	var vectors [][]float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := r.embedder.Embed(gctx, []string{description})
		if err != nil {
			return fmt.Errorf("failed to embed description: %w", err)
		}
		if len(out) != 1 {
			return fmt.Errorf("failed to embed description: got %d vectors", len(out))
		}
		query = out[0]
		return nil
	})
	g.Go(func() error {
		out, err := r.embedder.Embed(gctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed candidates: %w", err)
		}
		if len(out) != len(texts) {
			return fmt.Errorf("failed to embed candidates: got %d vectors for %d candidates", len(out), len(texts))
		}
		vectors = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := make([]Recommendation, len(candidates))
	for i, c := range candidates {
		score, err := cosine(query, vectors[i])
		if err != nil {
			return nil, err
		}
		ranked[i] = Recommendation{
			Title:       c.Title,
			URL:         c.URL,
			Description: c.Description,
			Similarity:  score,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})
	if len(ranked) > TopK {
		ranked = ranked[:TopK]
	}
	for i := range ranked {
		ranked[i].Similarity = round4(ranked[i].Similarity)
	}
	return ranked, nil
}

// cosine returns the cosine similarity of a and b, or 0 when either is a zero vector.
func cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

func round4(v float64) float64 {
	v = math.Max(-1, math.Min(1, v))
	return math.Round(v*10000) / 10000
}
