// Package cache memoizes screening outcomes in Redis, keyed by a digest of the
// raw batch. Screening is deterministic for a given batch and processing date,
// so a resubmitted file is answered without running detection again.
package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"fraudscreen/internal/screening"
)

const keyPrefix = "fraudscreen:outcome:"

// Key derives the cache key for a batch screened by the engine identified by
// fingerprint (see screening.Engine.Fingerprint). The fingerprint keeps
// deployments with different rules from sharing entries; the processing date
// is part of the key because it fills in missing application dates.
func Key(fingerprint string, raw []screening.RawRecord, processedAt time.Time) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("init digest: %w", err)
	}
	if _, err := fmt.Fprintf(h, "%s\n%s\n", fingerprint, processedAt.UTC().Format(time.DateOnly)); err != nil {
		return "", fmt.Errorf("digest header: %w", err)
	}
	enc := json.NewEncoder(h)
	for _, r := range raw {
		if err := enc.Encode(r); err != nil {
			return "", fmt.Errorf("digest record: %w", err)
		}
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

// RedisCache stores outcomes as JSON with a TTL.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached outcome, or ok=false on a miss.
func (c *RedisCache) Get(ctx context.Context, key string) (*screening.Outcome, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get cached outcome: %w", err)
	}
	var out screening.Outcome
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false, fmt.Errorf("decode cached outcome: %w", err)
	}
	return &out, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, outcome *screening.Outcome) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("encode outcome: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache outcome: %w", err)
	}
	return nil
}
