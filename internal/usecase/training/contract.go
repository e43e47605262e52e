package training

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/kailas-cloud/intentd/internal/domain"
)

// DatasetLoader reads one dataset source, re-validating existence and readability.
type DatasetLoader interface {
	LoadFile(path string) (domain.Dataset, error)
}

// SentenceEncoder encodes patterns without batch wrapping.
type SentenceEncoder interface {
	TokenCount(sentence string) int
	EncodeSentence(ctx context.Context, sentence string, maxTokens int) (*mat.Dense, error)
}

// TagRegistry resolves the label space the training set is encoded against.
type TagRegistry interface {
	Index(tag string) (int, bool)
	Tags() []string
	Len() int
}

// ModelPredictor is a predictor that can be serialized after Fit.
type ModelPredictor interface {
	domain.Predictor
	MarshalBinary() ([]byte, error)
}

// ModelSaver persists a serialized model and returns a reference to it.
type ModelSaver interface {
	Save(ctx context.Context, data []byte) (string, error)
}
