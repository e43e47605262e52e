// Package decoder maps predictor probability vectors back onto registry tags.
package decoder

import "github.com/kailas-cloud/intentd/internal/domain"

// TagRegistry is the read-only registry view the decoder needs.
type TagRegistry interface {
	TagAt(i int) (string, bool)
	ResponsesFor(tag string) ([]string, bool)
}

// Decode picks the most probable tag (first index on ties) and its responses.
// It returns false when the winning index has no tag or the tag has no
// responses, which signals a predictor/registry mismatch.
func Decode(probabilities []float64, reg TagRegistry) (domain.Prediction, bool) {
	if len(probabilities) == 0 {
		return domain.Prediction{}, false
	}

	best := 0
	for i, p := range probabilities[1:] {
		if p > probabilities[best] {
			best = i + 1
		}
	}

	tag, ok := reg.TagAt(best)
	if !ok {
		return domain.Prediction{}, false
	}
	responses, ok := reg.ResponsesFor(tag)
	if !ok {
		return domain.Prediction{}, false
	}

	return domain.Prediction{
		Tag:        tag,
		Responses:  responses,
		Confidence: probabilities[best],
	}, true
}
