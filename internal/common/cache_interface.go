package common

import "time"

// CacheInterface backs the cached dashboard and telemetry statistics and the
// refresh-token blacklist. CacheService keeps values as given while redis
// hands back their JSON decoding, so both users store plain strings.
type CacheInterface interface {
	// A zero duration means the go-cache default expiry, or no expiry on redis.
	Set(key string, value interface{}, duration time.Duration)
	Get(key string) (interface{}, bool)
	Delete(key string)
	Close() error
}
