package domain

import "context"

// WordVectorSource is the token vectorization contract between layers.
// A lookup miss returns ErrTokenNotFound; the encoder substitutes a zero vector.
type WordVectorSource interface {
	VectorFor(ctx context.Context, token string) ([]float64, error)
	Dimensions() int
}

// TextNormalizer splits sentences into tokens and reduces tokens to stems.
type TextNormalizer interface {
	Tokenize(sentence string) []string
	Stem(token string) string
}

// HealthChecker verifies word vector provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
