package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"lexcase_app_go/models"

	"github.com/redis/go-redis/v9"
)

const (
	publicCasesCacheKey = "lexcase:public_cases"
	publicCasesCacheTTL = 5 * time.Minute
	cacheTimeout        = 2 * time.Second
)

// PublicCaseCache caches the public case listing in Redis. Every failure
// degrades silently to a direct store query; the cache is never load-bearing.
type PublicCaseCache struct {
	client *redis.Client
}

// NewPublicCaseCache connects to Redis. Returns an error when the server is
// unreachable so the caller can run without a cache.
func NewPublicCaseCache(redisURL string) (*PublicCaseCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &PublicCaseCache{client: client}, nil
}

// NewPublicCaseCacheWithClient builds a cache from an existing client.
func NewPublicCaseCacheWithClient(client *redis.Client) *PublicCaseCache {
	return &PublicCaseCache{client: client}
}

// Get returns the cached public listing, or false on miss or any failure.
func (c *PublicCaseCache) Get() ([]models.CaseRecord, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, publicCasesCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[WARNING] public case cache read failed: %v", err)
		}
		return nil, false
	}

	var records []models.CaseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("[WARNING] public case cache entry corrupt, dropping: %v", err)
		c.Invalidate()
		return nil, false
	}
	return records, true
}

// Set stores the public listing with a TTL.
func (c *PublicCaseCache) Set(records []models.CaseRecord) {
	data, err := json.Marshal(records)
	if err != nil {
		log.Printf("[WARNING] public case cache encode failed: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	if err := c.client.Set(ctx, publicCasesCacheKey, data, publicCasesCacheTTL).Err(); err != nil {
		log.Printf("[WARNING] public case cache write failed: %v", err)
	}
}

// Invalidate drops the cached listing. Called after every case mutation.
func (c *PublicCaseCache) Invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	if err := c.client.Del(ctx, publicCasesCacheKey).Err(); err != nil {
		log.Printf("[WARNING] public case cache invalidation failed: %v", err)
	}
}
