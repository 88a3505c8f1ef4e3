package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheServiceRoundTrip(t *testing.T) {
	c := NewCacheService(time.Minute, time.Minute)
	defer c.Close()

	c.Set("blacklist:abc", "1", time.Minute)
	v, ok := c.Get("blacklist:abc")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	c.Delete("blacklist:abc")
	_, ok = c.Get("blacklist:abc")
	assert.False(t, ok)
}

func TestCacheServiceExpiry(t *testing.T) {
	c := NewCacheService(20*time.Millisecond, time.Minute)

	c.Set("dashboard", `{"stats":{}}`, 10*time.Millisecond)
	c.Set("telemetry_stats", `{}`, 0)
	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get("dashboard")
	assert.False(t, ok)
	_, ok = c.Get("telemetry_stats")
	assert.False(t, ok, "zero duration falls back to the default expiry")
}

func TestCacheServiceCloseDropsEntries(t *testing.T) {
	c := NewCacheService(time.Minute, time.Minute)
	c.Set("k", "v", time.Minute)
	require.NoError(t, c.Close())
	_, ok := c.Get("k")
	assert.False(t, ok)
}
