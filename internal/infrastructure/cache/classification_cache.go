package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/model"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port"
)

const (
	keyPrefix  = "underwriting:classify:"
	defaultTTL = 15 * time.Minute
)

// RedisOptions mirrors the connection fields of config.RedisConfig.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient builds a pooled client with conservative timeouts.
func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

// ClassificationCache implements port.ClassificationCache on Redis.
type ClassificationCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ port.ClassificationCache = (*ClassificationCache)(nil)

// NewClassificationCache returns a cache whose entries expire after ttl.
func NewClassificationCache(client redis.Cmdable, ttl time.Duration) *ClassificationCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ClassificationCache{client: client, ttl: ttl}
}

// Get returns the cached profile for key. A miss is not an error.
func (c *ClassificationCache) Get(ctx context.Context, key string) (model.FundingProfile, bool, error) {
	data, err := c.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.FundingProfile{}, false, nil
	}
	if err != nil {
		return model.FundingProfile{}, false, fmt.Errorf("redis get: %w", err)
	}

	var fp model.FundingProfile
	if err := json.Unmarshal(data, &fp); err != nil {
		return model.FundingProfile{}, false, fmt.Errorf("decode cached profile: %w", err)
	}
	return fp, true, nil
}

// Set stores profile under key.
func (c *ClassificationCache) Set(ctx context.Context, key string, profile model.FundingProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := c.client.Set(ctx, redisKey(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// redisKey hashes the profile key so applicant details never appear in
// plain text in Redis.
func redisKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return keyPrefix + hex.EncodeToString(sum[:])
}
