package recommend

import (
	"context"
	"errors"
	"math"
	"testing"
)

// vectorEmbedder maps each text to a fixed vector.
type vectorEmbedder struct {
	vectors map[string][]float64
	err     error
}

func (e *vectorEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = e.vectors[text]
	}
	return out, nil
}

func (e *vectorEmbedder) Model() string { return "fixed" }

func candidates(descriptions ...string) []Candidate {
	out := make([]Candidate, len(descriptions))
	for i, d := range descriptions {
		out[i] = Candidate{Title: "t-" + d, URL: "https://example.org/" + d, Description: d}
	}
	return out
}

func TestRecommend_EmptyCandidateSet(t *testing.T) {
	r := NewRecommender(NewHashingEmbedder(0))

	for _, cs := range [][]Candidate{nil, {}} {
		if _, err := r.Recommend(context.Background(), "anything", cs); !errors.Is(err, ErrEmptyCandidateSet) {
			t.Errorf("Recommend() error = %v, want %v", err, ErrEmptyCandidateSet)
		}
	}
}

func TestRecommend_RanksTopFive(t *testing.T) {
	e := &vectorEmbedder{vectors: map[string][]float64{
		"q": {1, 0},
		"a": {1, 0},       // 1
		"b": {0, 1},       // 0
		"c": {-1, 0},      // -1
		"d": {1, 1},       // 0.7071
		"e": {3, 1},       // 0.9487
		"f": {1, 2},       // 0.4472
		"g": {1, -1},      // 0.7071
		"h": {0.2, 0.001}, // 1.0000 after rounding
	}}
	r := NewRecommender(e)

	got, err := r.Recommend(context.Background(), "q", candidates("a", "b", "c", "d", "e", "f", "g", "h"))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	want := []struct {
		desc string
		sim  float64
	}{
		{"a", 1},
		{"h", 1},
		{"e", 0.9487},
		{"d", 0.7071},
		{"g", 0.7071},
	}
	if len(got) != len(want) {
		t.Fatalf("len(Recommend()) = %v, want %v", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Description != w.desc {
			t.Errorf("Recommend()[%d].Description = %v, want %v", i, got[i].Description, w.desc)
		}
		if got[i].Similarity != w.sim {
			t.Errorf("Recommend()[%d].Similarity = %v, want %v", i, got[i].Similarity, w.sim)
		}
		if got[i].Title != "t-"+w.desc {
			t.Errorf("Recommend()[%d].Title = %v, want %v", i, got[i].Title, "t-"+w.desc)
		}
	}
}

func TestRecommend_FewerThanTopK(t *testing.T) {
	e := &vectorEmbedder{vectors: map[string][]float64{
		"q": {1, 0},
		"a": {0, 1},
		"b": {1, 0},
	}}
	got, err := NewRecommender(e).Recommend(context.Background(), "q", candidates("a", "b"))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(Recommend()) = %v, want %v", len(got), 2)
	}
	if got[0].Description != "b" || got[1].Description != "a" {
		t.Errorf("Recommend() order = [%v %v], want [b a]", got[0].Description, got[1].Description)
	}
}

func TestRecommend_TiesKeepInputOrder(t *testing.T) {
	e := &vectorEmbedder{vectors: map[string][]float64{
		"q": {1, 0},
		"x": {1, 1},
		"y": {1, -1},
		"z": {2, 2},
	}}
	got, err := NewRecommender(e).Recommend(context.Background(), "q", candidates("x", "y", "z"))
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	order := []string{got[0].Description, got[1].Description, got[2].Description}
	want := []string{"x", "y", "z"}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Recommend() order = %v, want %v", order, want)
			break
		}
	}
}

func TestRecommend_Errors(t *testing.T) {
	embedErr := errors.New("backend down")

	tests := []struct {
		name     string
		embedder Embedder
		wantErr  error
	}{
		{"embedder failure", &vectorEmbedder{err: embedErr}, embedErr},
		{"dimension mismatch", &vectorEmbedder{vectors: map[string][]float64{"q": {1, 0}, "a": {1, 0, 0}}}, ErrDimensionMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecommender(tt.embedder).Recommend(context.Background(), "q", candidates("a"))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Recommend() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecommend_PropertiesWithHashingEmbedder(t *testing.T) {
	r := NewRecommender(NewHashingEmbedder(0))
	cs := []Candidate{
		{Title: "1", Description: "Грант на разработку программного обеспечения для малого бизнеса"},
		{Title: "2", Description: "Поддержка сельского хозяйства и фермеров"},
		{Title: "3", Description: "Субсидии на экспорт промышленной продукции"},
		{Title: "4", Description: "Программа поддержки IT стартапов и разработки ПО"},
		{Title: "5", Description: "Культурные проекты и искусство"},
		{Title: "6", Description: "Медицинские исследования и биотехнологии"},
		{Title: "7", Description: ""},
	}

	got, err := r.Recommend(context.Background(), "Стартап по разработке программного обеспечения", cs)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != TopK {
		t.Fatalf("len(Recommend()) = %v, want %v", len(got), TopK)
	}
	for i, rec := range got {
		if rec.Similarity < -1 || rec.Similarity > 1 {
			t.Errorf("Recommend()[%d].Similarity = %v, out of [-1, 1]", i, rec.Similarity)
		}
		if rounded := math.Round(rec.Similarity*10000) / 10000; rounded != rec.Similarity {
			t.Errorf("Recommend()[%d].Similarity = %v, not rounded to 4 decimals", i, rec.Similarity)
		}
		if i > 0 && got[i-1].Similarity < rec.Similarity {
			t.Errorf("Recommend() not sorted descending at %d: %v < %v", i, got[i-1].Similarity, rec.Similarity)
		}
	}
	if got[0].Title != "1" {
		t.Errorf("Recommend()[0].Title = %v, want %v", got[0].Title, "1")
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cosine(tt.a, tt.b)
			if err != nil {
				t.Fatalf("cosine() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRound4(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.123449, 0.1234},
		{0.12345, 0.1235},
		{1.0000000002, 1},
		{-1.0000000002, -1},
		{-0.98765, -0.9877},
	}
	for _, tt := range tests {
		if got := round4(tt.in); got != tt.want {
			t.Errorf("round4(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
