// Package openai provides a word vector source backed by an OpenAI-compatible
// embeddings API (OpenAI, Nebius, vLLM, ...).
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/intentd/internal/domain"
	"github.com/kailas-cloud/intentd/internal/metrics"
)

var _ domain.WordVectorSource = (*VectorSource)(nil)

// VectorSource embeds one token per API call.
type VectorSource struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	provider   string
	logger     *zap.Logger
}

// Config holds the embeddings provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Provider   string
	Logger     *zap.Logger
}

// NewVectorSource creates an OpenAI-compatible word vector source.
func NewVectorSource(cfg *Config) *VectorSource {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &VectorSource{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		provider:   cfg.Provider,
		logger:     logger,
	}
}

// Dimensions returns the configured vector width.
func (s *VectorSource) Dimensions() int { return s.dimensions }

// VectorFor implements domain.WordVectorSource.
func (s *VectorSource) VectorFor(ctx context.Context, token string) ([]float64, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{token},
		Model:          s.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if s.dimensions > 0 {
		req.Dimensions = s.dimensions
	}

	start := time.Now()
	resp, err := s.client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.WordVectorLookupsTotal.WithLabelValues("openai", "error").Inc()
		s.logger.Debug("Embeddings request failed", zap.String("token", token), zap.Error(err))
		return nil, parseAPIError(err)
	}
	metrics.WordVectorRequestDuration.WithLabelValues(s.provider, string(s.model)).Observe(duration.Seconds())

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		metrics.WordVectorLookupsTotal.WithLabelValues("openai", "error").Inc()
		return nil, fmt.Errorf("empty embedding response: %w", domain.ErrWordVectorProviderError)
	}

	raw := resp.Data[0].Embedding
	if s.dimensions > 0 && len(raw) != s.dimensions {
		metrics.WordVectorLookupsTotal.WithLabelValues("openai", "error").Inc()
		return nil, fmt.Errorf("provider returned %d dims, want %d: %w",
			len(raw), s.dimensions, domain.ErrVectorDimMismatch)
	}

	metrics.WordVectorLookupsTotal.WithLabelValues("openai", "hit").Inc()
	vec := make([]float64, len(raw))
	for i, v := range raw {
		vec[i] = float64(v)
	}
	return vec, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (s *VectorSource) HealthCheck(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors wrap domain.ErrWordVectorProviderError.
func parseAPIError(err error) error {
	wrap := domain.ErrWordVectorProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("embedding API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("embedding API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("embedding request failed: %w", wrap)
}

// extractDetail pulls the "detail" field out of a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
