package cache

import (
	"testing"
	"time"

	"content-backend/internal/domains/content/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissesWhenEmpty(t *testing.T) {
	cache := New(time.Minute, nil)

	_, ok := cache.Get()
	assert.False(t, ok)
}

func TestSetThenGet(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := New(time.Minute, func() time.Time { return now })

	records := []model.ContentRecord{{ID: "a", Title: "Alpha"}}
	cache.Set(records)

	got, ok := cache.Get()
	require.True(t, ok)
	assert.Equal(t, records, got)
}

func TestGetMissesAfterTTL(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := New(time.Minute, func() time.Time { return now })

	cache.Set([]model.ContentRecord{{ID: "a"}})

	now = now.Add(59 * time.Second)
	_, ok := cache.Get()
	assert.True(t, ok, "entry inside the TTL still serves")

	now = now.Add(2 * time.Second)
	_, ok = cache.Get()
	assert.False(t, ok, "entry past the TTL reads as a miss")
}

func TestEmptyListIsAValidEntry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cache := New(time.Minute, func() time.Time { return now })

	cache.Set([]model.ContentRecord{})

	got, ok := cache.Get()
	require.True(t, ok, "an empty collection is a hit, not a miss")
	assert.Empty(t, got)
}

func TestInvalidate(t *testing.T) {
	cache := New(time.Minute, nil)
	cache.Set([]model.ContentRecord{{ID: "a"}})

	cache.Invalidate()

	_, ok := cache.Get()
	assert.False(t, ok)
}
