package services

import (
	"testing"

	"lexcase_app_go/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupCache(t *testing.T) (*PublicCaseCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewPublicCaseCacheWithClient(client), mr
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := setupCache(t)

	_, ok := cache.Get()
	assert.False(t, ok)

	records := []models.CaseRecord{
		{ID: "a", CaseNumber: "1", CaseYear: "2024", IsPublic: true},
		{ID: "b", CaseNumber: "2", CaseYear: "2024", IsPublic: true},
	}
	cache.Set(records)

	cached, ok := cache.Get()
	assert.True(t, ok)
	assert.Equal(t, records, cached)
}

func TestCacheInvalidate(t *testing.T) {
	cache, _ := setupCache(t)

	cache.Set([]models.CaseRecord{{ID: "a"}})
	cache.Invalidate()

	_, ok := cache.Get()
	assert.False(t, ok)
}

func TestCacheExpires(t *testing.T) {
	cache, mr := setupCache(t)

	cache.Set([]models.CaseRecord{{ID: "a"}})
	mr.FastForward(publicCasesCacheTTL + 1)

	_, ok := cache.Get()
	assert.False(t, ok)
}

func TestCacheCorruptEntryDropped(t *testing.T) {
	cache, mr := setupCache(t)

	mr.Set(publicCasesCacheKey, "{not json")

	_, ok := cache.Get()
	assert.False(t, ok)
	assert.False(t, mr.Exists(publicCasesCacheKey))
}
