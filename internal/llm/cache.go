package llm

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/resume-parser/internal/logger"
)

// ErrCacheMiss is returned by a Cache when the key is absent
var ErrCacheMiss = errors.New("cache miss")

// Cache stores encoded embeddings by key
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// RedisCache implements Cache on Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis server at url (redis://host:port/db)
func NewRedisCache(url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

// Get returns the cached value or ErrCacheMiss
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return value, err
}

// Set stores value under key for ttl
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Close closes the Redis client
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedEmbedder caches the vectors of another Embedder. Cache errors are
// logged and the underlying embedder is used instead.
type CachedEmbedder struct {
	next   Embedder
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedEmbedder wraps next with cache
func NewCachedEmbedder(next Embedder, cache Cache, ttl time.Duration, log *zap.Logger) *CachedEmbedder {
	return &CachedEmbedder{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger.OrNop(log).With(zap.String("component", "embedding-cache")),
	}
}

// Embed returns the cached vector for text or computes and stores it
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := e.key(text)

	data, err := e.cache.Get(ctx, key)
	switch {
	case err == nil:
		if vec, ok := decodeVector(data); ok {
			return vec, nil
		}
		e.logger.Warn("discarding malformed cached embedding", zap.String("key", key))
	case !errors.Is(err, ErrCacheMiss):
		e.logger.Warn("embedding cache read failed", zap.Error(err))
	}

	vec, err := e.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := e.cache.Set(ctx, key, encodeVector(vec), e.ttl); err != nil {
		e.logger.Warn("embedding cache write failed", zap.Error(err))
	}
	return vec, nil
}

// Model returns the model of the wrapped embedder
func (e *CachedEmbedder) Model() string {
	return e.next.Model()
}

// Close closes the cache and the wrapped embedder
func (e *CachedEmbedder) Close() error {
	return errors.Join(e.cache.Close(), e.next.Close())
}

func (e *CachedEmbedder) key(text string) string {
	return "embedding:" + e.next.Model() + ":" + strconv.FormatUint(xxhash.Sum64String(text), 16)
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, bool) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, false
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return vec, true
}
