package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/grantmatch/config"
)

func TestHashingEmbedder(t *testing.T) {
	e := NewHashingEmbedder(0)
	ctx := context.Background()

	vecs, err := e.Embed(ctx, []string{"Программа поддержки", "программа  ПОДДЕРЖКИ!", ""})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("len(Embed()) = %v, want %v", len(vecs), 3)
	}
	if len(vecs[0]) != DefaultHashingDimensions {
		t.Errorf("len(vector) = %v, want %v", len(vecs[0]), DefaultHashingDimensions)
	}

	var norm float64
	for _, v := range vecs[0] {
		norm += v * v
	}
	if math.Abs(norm-1) > 1e-9 {
		t.Errorf("squared norm = %v, want 1", norm)
	}

	sim, err := cosine(vecs[0], vecs[1])
	if err != nil {
		t.Fatalf("cosine() error = %v", err)
	}
	if math.Abs(sim-1) > 1e-9 {
		t.Errorf("case and punctuation changed the embedding: cosine = %v", sim)
	}

	for i, v := range vecs[2] {
		if v != 0 {
			t.Fatalf("empty text vector[%d] = %v, want 0", i, v)
		}
	}
}

func TestHashingEmbedder_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewHashingEmbedder(16).Embed(ctx, []string{"a"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Embed() error = %v, want %v", err, context.Canceled)
	}
}

// newEmbeddingServer answers /v1/embeddings with vectors [len(text), index],
// returned in reverse order to exercise index reassembly.
func newEmbeddingServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Input) > embeddingBatchSize {
			http.Error(w, "batch too large", http.StatusBadRequest)
			return
		}

		type item struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		}
		data := make([]item, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, item{Index: i, Embedding: []float64{float64(len(req.Input[i])), float64(i)}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "model": req.Model})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPEmbedder_Embed(t *testing.T) {
	var calls atomic.Int32
	srv := newEmbeddingServer(t, &calls)

	e := NewHTTPEmbedder(config.EmbeddingConfig{
		URL:     srv.URL + "/",
		Model:   "test-model",
		APIKey:  "secret",
		Timeout: 5 * time.Second,
	}, nil)

	texts := make([]string, 70)
	for i := range texts {
		texts[i] = strings.Repeat("x", i)
	}

	vecs, err := e.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vecs) != len(texts) {
		t.Fatalf("len(Embed()) = %v, want %v", len(vecs), len(texts))
	}
	for i, v := range vecs {
		if v[0] != float64(i) {
			t.Errorf("Embed()[%d][0] = %v, want %v", i, v[0], i)
		}
		if v[1] != float64(i%embeddingBatchSize) {
			t.Errorf("Embed()[%d][1] = %v, want %v", i, v[1], i%embeddingBatchSize)
		}
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server calls = %v, want %v", got, 3)
	}
	if e.Model() != "test-model" {
		t.Errorf("Model() = %v, want %v", e.Model(), "test-model")
	}
}

func TestHTTPEmbedder_Errors(t *testing.T) {
	var calls atomic.Int32
	srv := newEmbeddingServer(t, &calls)

	tests := []struct {
		name       string
		cfg        config.EmbeddingConfig
		wantStatus int
	}{
		{"missing key", config.EmbeddingConfig{URL: srv.URL}, http.StatusUnauthorized},
		{"wrong path", config.EmbeddingConfig{URL: srv.URL + "/other/embeddings", APIKey: "secret"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHTTPEmbedder(tt.cfg, srv.Client()).Embed(context.Background(), []string{"a"})
			var embErr *EmbeddingError
			if !errors.As(err, &embErr) {
				t.Fatalf("Embed() error = %v, want *EmbeddingError", err)
			}
			if embErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %v, want %v", embErr.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestHTTPEmbedder_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1]}]}`))
	}))
	defer srv.Close()

	_, err := NewHTTPEmbedder(config.EmbeddingConfig{URL: srv.URL}, srv.Client()).Embed(context.Background(), []string{"a", "b"})
	if err == nil || !strings.Contains(err.Error(), "got 1 vectors for 2 inputs") {
		t.Errorf("Embed() error = %v, want count mismatch", err)
	}
}
