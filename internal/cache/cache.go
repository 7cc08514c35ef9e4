package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mercari/shopper/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "shopper:search:"

// SearchCache stores search results per forwarded parameter set.
// Get reports ok=false on a miss.
type SearchCache interface {
	Get(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, bool, error)
	Set(ctx context.Context, params domain.SearchParams, result *domain.SearchResult) error
}

type redisSearchCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewRedisSearchCache(redisClient *redis.Client, ttl time.Duration) SearchCache {
	return &redisSearchCache{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func (c *redisSearchCache) Get(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, bool, error) {
	key, err := Key(params)
	if err != nil {
		return nil, false, err
	}

	val, err := c.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached search %s: %w", key, err)
	}

	var result domain.SearchResult
	if err := json.Unmarshal(val, &result); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached search %s: %w", key, err)
	}

	return &result, true, nil
}

func (c *redisSearchCache) Set(ctx context.Context, params domain.SearchParams, result *domain.SearchResult) error {
	key, err := Key(params)
	if err != nil {
		return err
	}

	val, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode search result: %w", err)
	}

	if err := c.redisClient.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache search %s: %w", key, err)
	}
	return nil
}

// Key derives the cache key from the canonical JSON of the parameters.
func Key(params domain.SearchParams) (string, error) {
	b, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to encode search params: %w", err)
	}
	sum := sha256.Sum256(b)
	return keyPrefix + hex.EncodeToString(sum[:]), nil
}

type noopSearchCache struct{}

// NewNoopSearchCache is used when redis is disabled.
func NewNoopSearchCache() SearchCache {
	return noopSearchCache{}
}

func (noopSearchCache) Get(context.Context, domain.SearchParams) (*domain.SearchResult, bool, error) {
	return nil, false, nil
}

func (noopSearchCache) Set(context.Context, domain.SearchParams, *domain.SearchResult) error {
	return nil
}
