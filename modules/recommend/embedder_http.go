package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/example/grantmatch/config"
	"golang.org/x/sync/errgroup"
)

const (
	embeddingBatchSize   = 32
	embeddingConcurrency = 4
)

// EmbeddingError is returned when the embedding server responds with an error.
type EmbeddingError struct {
	StatusCode int
	Message    string
}

func (err *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding: HTTP %d: %s", err.StatusCode, err.Message)
}

// HTTPEmbedder calls an OpenAI-compatible /v1/embeddings endpoint, such as a
// text-embeddings-inference server.
type HTTPEmbedder struct {
	httpClient *http.Client
	endpoint   string
	model      string
	apiKey     string
}

var _ Embedder = (*HTTPEmbedder)(nil)

// NewHTTPEmbedder creates an HTTPEmbedder from cfg. cfg.URL may be the server
// base URL or the full embeddings endpoint.
func NewHTTPEmbedder(cfg config.EmbeddingConfig, httpClient *http.Client) *HTTPEmbedder {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	endpoint := strings.TrimRight(cfg.URL, "/")
	if !strings.HasSuffix(endpoint, "/embeddings") {
		endpoint += "/v1/embeddings"
	}
	return &HTTPEmbedder{
		httpClient: httpClient,
		endpoint:   endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
	}
}

// Model returns the configured model name.
func (e *HTTPEmbedder) Model() string {
	return e.model
}

type embeddingRequest struct {
	Model string   `json:"model,omitempty"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed sends texts in batches, several in flight at once, and reassembles
// the vectors in input order.
func (e *HTTPEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(embeddingConcurrency)
	for start := 0; start < len(texts); start += embeddingBatchSize {
		end := min(start+embeddingBatchSize, len(texts))
		g.Go(func() error {
			batch, err := e.embedBatch(ctx, texts[start:end])
			if err != nil {
				return err
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

func (e *HTTPEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	body, err := json.Marshal(embeddingRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("embedding: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embedding: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding: sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &EmbeddingError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	var decoded embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("embedding: decoding response: %w", err)
	}
	if len(decoded.Data) != len(texts) {
		return nil, fmt.Errorf("embedding: got %d vectors for %d inputs", len(decoded.Data), len(texts))
	}

	vectors := make([][]float64, len(texts))
	for _, item := range decoded.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("embedding: vector index %d out of range", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}
