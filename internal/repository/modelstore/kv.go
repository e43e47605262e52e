package modelstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/intentd/internal/db"
	"github.com/kailas-cloud/intentd/internal/domain"
)

var (
	keyPrefix = domain.KeyPrefix + "model:"
	latestKey = keyPrefix + "latest"
)

// store is the consumer interface for snapshot persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// KVStore keeps snapshots under intentd:model:<unix> and points
// intentd:model:latest at the newest one.
type KVStore struct {
	store store
	now   func() time.Time
}

// NewKVStore creates a KV-backed snapshot store.
func NewKVStore(s store) *KVStore {
	return &KVStore{store: s, now: time.Now}
}

// Save stores data and moves the latest pointer to it.
func (s *KVStore) Save(ctx context.Context, data []byte) (string, error) {
	ref := strconv.FormatInt(s.now().Unix(), 10)
	if err := s.store.Set(ctx, keyPrefix+ref, data); err != nil {
		return "", fmt.Errorf("store snapshot: %w", err)
	}
	if err := s.store.Set(ctx, latestKey, []byte(ref)); err != nil {
		return "", fmt.Errorf("update latest pointer: %w", err)
	}
	return ref, nil
}

// Load fetches the snapshot named by ref, or the latest one when ref is empty.
func (s *KVStore) Load(ctx context.Context, ref string) ([]byte, string, error) {
	if ref == "" {
		latest, err := s.get(ctx, latestKey)
		if err != nil {
			return nil, "", err
		}
		ref = string(latest)
	}

	data, err := s.get(ctx, keyPrefix+ref)
	if err != nil {
		return nil, "", err
	}
	return data, ref, nil
}

func (s *KVStore) get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%s: %w", key, domain.ErrModelNotFound)
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return data, nil
}
