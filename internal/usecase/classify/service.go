// Package classify runs live inference: encode, predict, decode.
package classify

import (
	"context"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/kailas-cloud/intentd/internal/domain"
	"github.com/kailas-cloud/intentd/internal/usecase/decoder"
)

// SentenceEncoder produces single-example batches.
type SentenceEncoder interface {
	EncodeBatch(ctx context.Context, sentence string, maxTokens int) (domain.Batch, error)
}

// Service classifies sentences. All collaborators are shared read-only,
// so one Service serves every connection concurrently.
type Service struct {
	encoder   SentenceEncoder
	predictor domain.Predictor
	registry  decoder.TagRegistry
	maxTokens int
}

// New creates a classify Service.
func New(encoder SentenceEncoder, predictor domain.Predictor, registry decoder.TagRegistry, maxTokens int) *Service {
	if maxTokens <= 0 {
		maxTokens = domain.DefaultMaxTokenLength
	}
	return &Service{
		encoder:   encoder,
		predictor: predictor,
		registry:  registry,
		maxTokens: maxTokens,
	}
}

// Classify returns the predicted tag, its responses and the confidence for sentence.
func (s *Service) Classify(ctx context.Context, sentence string) (domain.Prediction, error) {
	if strings.TrimSpace(sentence) == "" {
		return domain.Prediction{}, domain.ErrNoSentence
	}

	batch, err := s.encoder.EncodeBatch(ctx, sentence, s.maxTokens)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("encode: %w", err)
	}

	probs, err := s.predictor.Predict(ctx, batch)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("predict: %w", err)
	}
	if probs == nil {
		return domain.Prediction{}, domain.ErrNoPrediction
	}

	pred, ok := decoder.Decode(mat.Row(nil, 0, probs), s.registry)
	if !ok {
		return domain.Prediction{}, domain.ErrNoPrediction
	}
	return pred, nil
}
