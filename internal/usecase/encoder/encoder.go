// Package encoder turns sentences into fixed-shape, zero-padded token vector matrices.
package encoder

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/kailas-cloud/intentd/internal/domain"
)

// Encoder is stateless beyond its collaborators and safe for concurrent use.
type Encoder struct {
	normalizer domain.TextNormalizer
	vectors    domain.WordVectorSource
}

// New creates an Encoder.
func New(normalizer domain.TextNormalizer, vectors domain.WordVectorSource) *Encoder {
	return &Encoder{normalizer: normalizer, vectors: vectors}
}

// Dimensions returns the width of every encoded row.
func (e *Encoder) Dimensions() int { return e.vectors.Dimensions() }

// TokenCount returns the number of real (non-punctuation) tokens in sentence.
func (e *Encoder) TokenCount(sentence string) int {
	return len(e.realTokens(sentence))
}

// EncodeSentence returns a (maxTokens, dims) matrix for sentence.
// Rows past the real token count are zero. A lookup miss yields a zero row.
func (e *Encoder) EncodeSentence(ctx context.Context, sentence string, maxTokens int) (*mat.Dense, error) {
	tokens := e.realTokens(sentence)
	if len(tokens) > maxTokens {
		return nil, domain.NewTokenLimitExceeded(sentence, len(tokens), maxTokens)
	}

	dims := e.vectors.Dimensions()
	if maxTokens <= 0 || dims <= 0 {
		return nil, fmt.Errorf("invalid encoding shape (%d, %d)", maxTokens, dims)
	}

	// mat.NewDense zero-fills, which provides the padding.
	m := mat.NewDense(maxTokens, dims, nil)
	for row, tok := range tokens {
		vec, err := e.vectors.VectorFor(ctx, e.normalizer.Stem(tok))
		if err != nil {
			if errors.Is(err, domain.ErrTokenNotFound) {
				continue
			}
			return nil, fmt.Errorf("vector for %q: %w", tok, err)
		}
		if len(vec) != dims {
			return nil, fmt.Errorf("token %q: got %d dims, want %d: %w",
				tok, len(vec), dims, domain.ErrVectorDimMismatch)
		}
		m.SetRow(row, vec)
	}
	return m, nil
}

// EncodeBatch returns sentence wrapped as a single-example batch, shape (1, maxTokens, dims).
func (e *Encoder) EncodeBatch(ctx context.Context, sentence string, maxTokens int) (domain.Batch, error) {
	m, err := e.EncodeSentence(ctx, sentence, maxTokens)
	if err != nil {
		return nil, err
	}
	return domain.Batch{m}, nil
}

func (e *Encoder) realTokens(sentence string) []string {
	all := e.normalizer.Tokenize(sentence)
	out := make([]string, 0, len(all))
	for _, tok := range all {
		if domain.IsPunctuation(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}
