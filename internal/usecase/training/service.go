package training

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Result summarizes a completed training run.
type Result struct {
	Features int
	Tags     int
	ModelRef string
	Duration time.Duration
}

// Service runs offline training: build the set, fit the predictor, persist the model.
type Service struct {
	builder   *Builder
	predictor ModelPredictor
	saver     ModelSaver
	maxTokens int
	logger    *zap.Logger
}

// NewService creates a training Service. saver can be nil to skip persistence.
func NewService(builder *Builder, predictor ModelPredictor, saver ModelSaver, maxTokens int, logger *zap.Logger) *Service {
	return &Service{
		builder:   builder,
		predictor: predictor,
		saver:     saver,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Train builds the training set from sources, fits the predictor and saves it.
func (s *Service) Train(ctx context.Context, sources []string) (Result, error) {
	start := time.Now()

	s.logger.Info("Preparing training data", zap.Strings("datasets", sources), zap.Int("max_token_length", s.maxTokens))
	set, err := s.builder.Build(ctx, sources, s.maxTokens)
	if err != nil {
		return Result{}, fmt.Errorf("build training set: %w", err)
	}

	s.logger.Info("Starting training",
		zap.Int("features", set.Len()),
		zap.Int("tags", len(set.Tags)),
	)
	if err := s.predictor.Fit(ctx, set); err != nil {
		return Result{}, fmt.Errorf("fit: %w", err)
	}

	res := Result{Features: set.Len(), Tags: len(set.Tags)}
	if s.saver != nil {
		data, err := s.predictor.MarshalBinary()
		if err != nil {
			return Result{}, fmt.Errorf("marshal model: %w", err)
		}
		ref, err := s.saver.Save(ctx, data)
		if err != nil {
			return Result{}, fmt.Errorf("save model: %w", err)
		}
		res.ModelRef = ref
	}
	res.Duration = time.Since(start)

	s.logger.Info("Training completed",
		zap.Int("features", res.Features),
		zap.String("model_ref", res.ModelRef),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}
