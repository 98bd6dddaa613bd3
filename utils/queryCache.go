package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// QueryCache stores JSON results in Redis under a hash of the resource and its query filters.
type QueryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewQueryCache(rdb *redis.Client, ttl time.Duration) *QueryCache {
	return &QueryCache{rdb: rdb, ttl: ttl}
}

// GenerateHash builds a cache key that is independent of filter order.
func GenerateHash(resourceType string, filters map[string]string) string {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("resource=" + resourceType)
	for _, k := range keys {
		fmt.Fprintf(&b, "&%s=%s", k, filters[k])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%s:%s", resourceType, hex.EncodeToString(sum[:]))
}

// Get loads a cached value into dst. found is false on a cache miss.
func (q *QueryCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := q.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (q *QueryCache) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return q.rdb.Set(ctx, key, raw, q.ttl).Err()
}

// InvalidateCache deletes every cached key for the given resource type
func (q *QueryCache) InvalidateCache(ctx context.Context, resourceType string) error {
	iter := q.rdb.Scan(ctx, 0, resourceType+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return q.rdb.Del(ctx, keys...).Err()
}
