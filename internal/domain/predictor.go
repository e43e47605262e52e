package domain

import (
	"context"

	"gonum.org/v1/gonum/mat"
)

// Batch is a sequence of encoded sentences, shape (N, max_token_length, dims).
type Batch []*mat.Dense

// Shape returns (N, rows, cols). Rows and cols are zero for an empty batch.
func (b Batch) Shape() (n, rows, cols int) {
	if len(b) == 0 {
		return 0, 0, 0
	}
	rows, cols = b[0].Dims()
	return len(b), rows, cols
}

// TrainingSet holds parallel features and one-hot labels for Predictor.Fit.
type TrainingSet struct {
	Features Batch
	// Labels is N x |tags|, one row per feature.
	Labels *mat.Dense
	// NumericLabels is the label value assigned to each feature's tag (1-based).
	NumericLabels []int
	// NormalizedLabels is NumericLabels divided by the maximum label value.
	NormalizedLabels []float64
	Tags             []string
	MaxTokens        int
}

// Len returns the number of feature/label pairs.
func (s *TrainingSet) Len() int { return len(s.Features) }

// Predictor is the trainable classifier contract.
// Predict returns an N x |tags| matrix of per-tag probabilities.
type Predictor interface {
	Fit(ctx context.Context, set *TrainingSet) error
	Predict(ctx context.Context, batch Batch) (*mat.Dense, error)
}
