package wordvec

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/intentd/internal/db"
	"github.com/kailas-cloud/intentd/internal/domain"
)

type mockSource struct {
	vectors map[string][]float64
	err     error
	dims    int
	calls   int
}

func (m *mockSource) VectorFor(_ context.Context, token string) ([]float64, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	vec, ok := m.vectors[token]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	return vec, nil
}

func (m *mockSource) Dimensions() int { return m.dims }

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func newTestCachedSource(t *testing.T, inner *mockSource) (*CachedSource, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cs := NewCached(inner, ms, "test-model", nil, zap.NewNop())
	return cs, ms
}
