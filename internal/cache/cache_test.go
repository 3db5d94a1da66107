package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct{ hits, misses int }

func (c *counter) CacheHit()  { c.hits++ }
func (c *counter) CacheMiss() { c.misses++ }

func TestCacheExpiry(t *testing.T) {
	obs := &counter{}
	c := New[int](time.Minute, obs)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 7)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 7, v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)

	c.Set("b", 1)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, obs.hits)
	assert.Equal(t, 2, obs.misses)
}

func TestCacheDisabledAndPurge(t *testing.T) {
	off := New[string](0, nil)
	off.Set("k", "v")
	_, ok := off.Get("k")
	assert.False(t, ok)

	c := New[string](time.Hour, nil)
	c.Set("k", "v")
	c.Set("j", "w")
	assert.Equal(t, 2, c.Len())
	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestSetIfGenerationSkipsAfterPurge(t *testing.T) {
	c := New[string](time.Hour, nil)
	gen := c.Generation()
	assert.True(t, c.SetIfGeneration("k", "fresh", gen))

	stale := c.Generation()
	c.Purge()
	assert.False(t, c.SetIfGeneration("k", "stale", stale))
	_, ok := c.Get("k")
	assert.False(t, ok)

	assert.True(t, c.SetIfGeneration("k", "new", c.Generation()))
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", v)

	off := New[string](0, nil)
	assert.False(t, off.SetIfGeneration("k", "v", off.Generation()))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, SnapshotKey("t"), SnapshotKey("t"))
	assert.NotEqual(t, SnapshotKey("t"), SnapshotKey("u"))
	assert.NotContains(t, SnapshotKey("secret"), "secret")

	assert.Equal(t,
		HistoryKey(" L1 ", "2024-05-01T06:00:00-06:00", "", "1h"),
		HistoryKey("L1", "2024-05-01T12:00:00Z", "", "1h"))
	assert.Equal(t, HistoryKey("L1", "-24h", "", "1h"), HistoryKey("L1", " -24h ", "", "1h"))
	assert.NotEqual(t, HistoryKey("L1", "-24h", "", "1h"), HistoryKey("L2", "-24h", "", "1h"))
	assert.NotEqual(t, HistoryKey("L1", "-24h", "", "1h"), HistoryKey("L1", "-24h", "", "15m"))
}
