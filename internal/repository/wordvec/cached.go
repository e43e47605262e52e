package wordvec

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/intentd/internal/db"
	"github.com/kailas-cloud/intentd/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "wordvec:"

// store is the consumer interface for the vector cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CachedSource caches token vectors in a key-value store.
type CachedSource struct {
	inner      domain.WordVectorSource
	store      store
	namespace  string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// NewCached creates a caching decorator. namespace separates models that share
// a store (typically the provider model name).
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func NewCached(
	inner domain.WordVectorSource,
	s store,
	namespace string,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSource {
	return &CachedSource{
		inner:      inner,
		store:      s,
		namespace:  namespace,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Dimensions delegates to the inner source.
func (c *CachedSource) Dimensions() int { return c.inner.Dimensions() }

// VectorFor returns a cached vector or asks the inner source.
// Misses reported by the inner source are not cached.
func (c *CachedSource) VectorFor(ctx context.Context, token string) ([]float64, error) {
	key := c.cacheKey(token)

	if vec, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return vec, nil
	}

	c.incCache("miss")

	vec, err := c.inner.VectorFor(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("lookup %q: %w", token, err)
	}

	c.putToCache(ctx, key, vec)
	return vec, nil
}

// HealthCheck delegates to the inner source when it supports health checks.
func (c *CachedSource) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (c *CachedSource) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedSource) cacheKey(token string) string {
	h := sha256.Sum256([]byte(c.namespace + "\x00" + token))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedSource) getFromCache(ctx context.Context, key string) ([]float64, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached word vector", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	vec, err := bytesToVector(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached word vector", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if dims := c.inner.Dimensions(); dims > 0 && len(vec) != dims {
		c.logger.Warn("Cached word vector has wrong width",
			zap.String("key", key), zap.Int("dims", len(vec)), zap.Int("want", dims))
		return nil, false
	}

	return vec, true
}

func (c *CachedSource) putToCache(ctx context.Context, key string, vec []float64) {
	if err := c.store.Set(ctx, key, vectorToCacheBytes(vec)); err != nil {
		c.logger.Warn("Failed to cache word vector", zap.String("key", key), zap.Error(err))
	}
}

// Vectors are stored as little-endian float32 to halve the footprint.
func vectorToCacheBytes(v []float64) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(f)))
	}
	return buf
}

func bytesToVector(data []byte) ([]float64, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid word vector cache data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float64, len(data)/4)
	for i := range vec {
		vec[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])))
	}
	return vec, nil
}
