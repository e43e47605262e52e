package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/intentd/internal/domain"
)

type embeddingData struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

// embeddingResponse mirrors the OpenAI-compatible API embedding response.
type embeddingResponse struct {
	Object string          `json:"object"`
	Data   []embeddingData `json:"data"`
	Model  string          `json:"model"`
}

func newTestSource(t *testing.T, h http.HandlerFunc, dims int) *VectorSource {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	return NewVectorSource(&Config{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Model:      "test-model",
		Dimensions: dims,
		Provider:   "test",
		Logger:     zap.NewNop(),
	})
}

func TestVectorSource_VectorFor(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Input) != 1 || req.Input[0] != "hello" {
			t.Errorf("unexpected input: %v", req.Input)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(embeddingResponse{
			Object: "list",
			Model:  "test-model",
			Data:   []embeddingData{{Object: "embedding", Embedding: []float32{0.5, -1, 2}}},
		})
	}, 3)

	vec, err := src.VectorFor(context.Background(), "hello")
	if err != nil {
		t.Fatalf("VectorFor failed: %v", err)
	}
	want := []float64{0.5, -1, 2}
	if len(vec) != len(want) {
		t.Fatalf("expected %d dimensions, got %d", len(want), len(vec))
	}
	for i := range want {
		if vec[i] != want[i] {
			t.Errorf("vec[%d] = %f, expected %f", i, vec[i], want[i])
		}
	}
	if src.Dimensions() != 3 {
		t.Errorf("Dimensions() = %d, expected 3", src.Dimensions())
	}
}

func TestVectorSource_DimensionMismatch(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(embeddingResponse{
			Object: "list",
			Data:   []embeddingData{{Object: "embedding", Embedding: []float32{1, 2}}},
		})
	}, 3)

	_, err := src.VectorFor(context.Background(), "hello")
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestVectorSource_EmptyResponse(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(embeddingResponse{Object: "list"})
	}, 3)

	_, err := src.VectorFor(context.Background(), "hello")
	if !errors.Is(err, domain.ErrWordVectorProviderError) {
		t.Fatalf("expected ErrWordVectorProviderError, got %v", err)
	}
}

func TestVectorSource_APIError(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"detail":"rate limit exceeded"}`))
	}, 3)

	_, err := src.VectorFor(context.Background(), "hello")
	if !errors.Is(err, domain.ErrWordVectorProviderError) {
		t.Fatalf("expected ErrWordVectorProviderError, got %v", err)
	}
}

func TestVectorSource_HealthCheck(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[]}`))
	}, 3)

	if err := src.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}
}

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail":"bad model"}`, "bad model"},
		{`{"error":"x"}`, ""},
		{`not json`, ""},
	}
	for _, tt := range tests {
		if got := extractDetail([]byte(tt.body)); got != tt.want {
			t.Errorf("extractDetail(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
