package cachex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string](time.Minute)
	c.Set("k", "v")

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c := New[int](time.Minute)
	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestCache_ExpiredEntryEvicted(t *testing.T) {
	c := New[string](time.Minute)
	base := time.Now()
	c.now = func() time.Time { return base }

	c.Set("k", "v")

	// Advance past the TTL; the entry must read as a miss and be evicted.
	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := New[int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "pokemon:1:20", Fingerprint("pokemon", 1, 20))
	assert.Equal(t, "search:pika:1:20", Fingerprint("search", "pika", 1, 20))
	assert.Equal(t, "shares", Fingerprint("shares"))
}
