package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_HitMissAndNegative(t *testing.T) {
	c := NewCache[string, int](0)

	_, found, inCache := c.Get("a")
	assert.False(t, found)
	assert.False(t, inCache)

	c.Set("a", 7, true)
	c.Set("b", 0, false)

	v, found, inCache := c.Get("a")
	assert.Equal(t, 7, v)
	assert.True(t, found)
	assert.True(t, inCache)

	_, found, inCache = c.Get("b")
	assert.False(t, found)
	assert.True(t, inCache)

	c.Delete("a")
	_, _, inCache = c.Get("a")
	assert.False(t, inCache)

	c.Flush()
	_, _, inCache = c.Get("b")
	assert.False(t, inCache)
}

func TestCache_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache[string, string](time.Minute)
	c.now = func() time.Time { return now }

	c.Set("coach", "sam", true)
	now = now.Add(30 * time.Second)
	_, _, inCache := c.Get("coach")
	assert.True(t, inCache)

	now = now.Add(time.Minute)
	_, _, inCache = c.Get("coach")
	assert.False(t, inCache)
}
