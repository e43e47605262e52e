package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDatasetNotFound signals a dataset source path that does not exist.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrDatasetUnreadable signals a dataset source that exists but cannot be read.
	ErrDatasetUnreadable = errors.New("dataset unreadable")
	// ErrDatasetMalformed signals a dataset document missing required fields.
	ErrDatasetMalformed = errors.New("dataset malformed")
	// ErrEmptyDataset signals a training run that produced zero features.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrTokenLimitExceeded signals a sentence with more real tokens than allowed.
	ErrTokenLimitExceeded = errors.New("token limit exceeded")
	// ErrTokenNotFound signals a word vector lookup miss.
	ErrTokenNotFound = errors.New("token not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrWordVectorProviderError signals a word vector provider failure.
	ErrWordVectorProviderError = errors.New("word vector provider error")

	// ErrNoSentence signals a request without a usable sentence.
	ErrNoSentence = errors.New("no sentence given")
	// ErrNoPrediction signals a predicted index the registry cannot resolve.
	ErrNoPrediction = errors.New("no prediction for sentence")

	// ErrModelNotFound signals a missing model snapshot.
	ErrModelNotFound = errors.New("model not found")
	// ErrModelNotTrained signals a predictor used before Fit or snapshot restore.
	ErrModelNotTrained = errors.New("model not trained")
	// ErrModelRegistryMismatch signals a snapshot trained on a different tag order.
	ErrModelRegistryMismatch = errors.New("model tags do not match registry")
)

// TokenLimitError wraps ErrTokenLimitExceeded with the offending sentence.
type TokenLimitError struct {
	Sentence string
	Tokens   int
	Limit    int
}

func (e *TokenLimitError) Error() string {
	return fmt.Sprintf("the sentence %q is longer than the maximum token length (%d > %d)",
		e.Sentence, e.Tokens, e.Limit)
}

func (e *TokenLimitError) Unwrap() error { return ErrTokenLimitExceeded }

// NewTokenLimitExceeded creates a token limit error.
func NewTokenLimitExceeded(sentence string, tokens, limit int) error {
	return &TokenLimitError{Sentence: sentence, Tokens: tokens, Limit: limit}
}
