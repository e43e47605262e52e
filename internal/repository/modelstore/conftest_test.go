package modelstore

import (
	"context"
	"time"

	"github.com/kailas-cloud/intentd/internal/db"
)

// memStore is an in-memory KV store for tests.
type memStore struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

// clock returns successive unix seconds starting at start.
func clock(start int64) func() time.Time {
	next := start
	return func() time.Time {
		t := time.Unix(next, 0)
		next++
		return t
	}
}
