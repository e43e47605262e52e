package modelstore

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/intentd/internal/domain"
)

// Loader reads a serialized snapshot; an empty ref selects the latest.
type Loader interface {
	Load(ctx context.Context, ref string) ([]byte, string, error)
}

// Model is a predictor that can be restored from a snapshot.
type Model interface {
	UnmarshalBinary(data []byte) error
	Tags() []string
}

// TagRegistry is the label space a restored model must agree with.
type TagRegistry interface {
	SameTags(tags []string) bool
}

// Restore loads a snapshot into m and checks its tag order against reg.
// It returns the resolved snapshot ref.
func Restore(ctx context.Context, l Loader, ref string, m Model, reg TagRegistry) (string, error) {
	data, resolved, err := l.Load(ctx, ref)
	if err != nil {
		return "", err
	}
	if err := m.UnmarshalBinary(data); err != nil {
		return "", fmt.Errorf("snapshot %s: %w", resolved, err)
	}
	if !reg.SameTags(m.Tags()) {
		return "", fmt.Errorf("snapshot %s tags %v: %w", resolved, m.Tags(), domain.ErrModelRegistryMismatch)
	}
	return resolved, nil
}
