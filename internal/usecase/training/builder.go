// Package training builds labeled training sets from intent datasets and fits the predictor.
package training

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/kailas-cloud/intentd/internal/domain"
	"github.com/kailas-cloud/intentd/internal/metrics"
)

// Skip reasons reported for records left out of a training set.
const (
	SkipNoTag           = "no_tag"
	SkipDuplicatedTag   = "duplicated_tag"
	SkipNoPatterns      = "no_patterns"
	SkipUnregisteredTag = "unregistered_tag"
	SkipEmptyPattern    = "empty_pattern"
	SkipTokenLimit      = "max_token_length_exceeded"
)

// Builder turns dataset sources into a domain.TrainingSet.
// A bad record is skipped with a warning and never aborts the run.
type Builder struct {
	loader   DatasetLoader
	encoder  SentenceEncoder
	registry TagRegistry
	logger   *zap.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(loader DatasetLoader, encoder SentenceEncoder, registry TagRegistry, logger *zap.Logger) *Builder {
	return &Builder{loader: loader, encoder: encoder, registry: registry, logger: logger}
}

// Build loads every source in order and encodes accepted patterns.
// The numeric label of a tag is its registry index + 1, so one-hot columns
// always line up with the registry used at inference time.
func (b *Builder) Build(ctx context.Context, sources []string, maxTokens int) (*domain.TrainingSet, error) {
	var (
		features []*mat.Dense
		labels   []int
		accepted = make(map[string]struct{})
	)

	for _, src := range sources {
		ds, err := b.loader.LoadFile(src)
		if err != nil {
			return nil, fmt.Errorf("load dataset: %w", err)
		}

		for idx, in := range ds.Intents {
			label, ok := b.acceptIntent(ds.Source, idx, in, accepted)
			if !ok {
				continue
			}

			for _, pattern := range in.Patterns {
				if strings.TrimSpace(pattern) == "" {
					b.skip(SkipEmptyPattern, "Pattern skipped, detected as empty",
						zap.String("tag", in.Tag), zap.String("dataset", ds.Source))
					continue
				}
				if n := b.encoder.TokenCount(pattern); n > maxTokens {
					b.skip(SkipTokenLimit, "Pattern skipped, exceeds the maximum token length",
						zap.String("pattern", pattern),
						zap.String("tag", in.Tag),
						zap.String("dataset", ds.Source),
						zap.Int("tokens", n),
						zap.Int("max_token_length", maxTokens),
					)
					continue
				}

				m, err := b.encoder.EncodeSentence(ctx, pattern, maxTokens)
				if err != nil {
					return nil, fmt.Errorf("encode pattern %q of tag %q: %w", pattern, in.Tag, err)
				}
				features = append(features, m)
				labels = append(labels, label)
			}
		}
	}

	if len(features) == 0 {
		return nil, domain.ErrEmptyDataset
	}

	set := &domain.TrainingSet{
		Features:      features,
		NumericLabels: labels,
		Tags:          b.registry.Tags(),
		MaxTokens:     maxTokens,
	}
	set.NormalizedLabels, set.Labels = oneHot(labels, b.registry.Len())
	metrics.TrainingFeatures.Set(float64(len(features)))
	return set, nil
}

// acceptIntent applies the tag-level skip rules and returns the numeric label.
func (b *Builder) acceptIntent(source string, idx int, in domain.Intent, accepted map[string]struct{}) (int, bool) {
	if strings.TrimSpace(in.Tag) == "" {
		b.skip(SkipNoTag, "Intent skipped, no tag found",
			zap.Int("index", idx), zap.String("dataset", source))
		return 0, false
	}
	if _, dup := accepted[in.Tag]; dup {
		b.skip(SkipDuplicatedTag, "Intent skipped, another intent already uses this tag",
			zap.String("tag", in.Tag), zap.String("dataset", source))
		return 0, false
	}
	if len(in.Patterns) == 0 {
		b.skip(SkipNoPatterns, "Intent skipped, no patterns given",
			zap.String("tag", in.Tag), zap.String("dataset", source))
		return 0, false
	}
	i, ok := b.registry.Index(in.Tag)
	if !ok {
		b.skip(SkipUnregisteredTag, "Intent skipped, tag is not in the registry",
			zap.String("tag", in.Tag), zap.String("dataset", source))
		return 0, false
	}

	accepted[in.Tag] = struct{}{}
	return i + 1, true
}

func (b *Builder) skip(reason, msg string, fields ...zap.Field) {
	metrics.TrainingRecordsSkippedTotal.WithLabelValues(reason).Inc()
	b.logger.Warn(msg, append(fields, zap.String("reason", reason))...)
}

// oneHot divides labels by their maximum, then maps each normalized value
// back to its column (round(v*max) - 1) in an N x classes matrix.
func oneHot(labels []int, classes int) ([]float64, *mat.Dense) {
	maxLabel := 0
	for _, l := range labels {
		maxLabel = max(maxLabel, l)
	}

	normalized := make([]float64, len(labels))
	out := mat.NewDense(len(labels), classes, nil)
	for i, l := range labels {
		normalized[i] = float64(l) / float64(maxLabel)
		col := int(math.Round(normalized[i]*float64(maxLabel))) - 1
		out.Set(i, col, 1)
	}
	return normalized, out
}
