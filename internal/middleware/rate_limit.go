package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/constants"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const minLimiterIdle = time.Minute

// RateLimiter hands out one token bucket per client IP. A bucket untouched
// for longer than idle is dropped; idle is never shorter than the time a
// bucket takes to refill, so dropping it cannot hand out extra tokens.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  *cache.Cache
	idle      time.Duration
	rps       rate.Limit
	burst     int
	whitelist map[string]bool
}

func NewRateLimiter(rps float64, burst int, whitelist ...string) *RateLimiter {
	idle := minLimiterIdle
	if rps > 0 {
		if refill := time.Duration(float64(burst) / rps * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return newRateLimiter(rps, burst, idle, whitelist...)
}

func newRateLimiter(rps float64, burst int, idle time.Duration, whitelist ...string) *RateLimiter {
	wl := make(map[string]bool, len(whitelist))
	for _, ip := range whitelist {
		wl[ip] = true
	}
	return &RateLimiter{
		limiters:  cache.New(idle, idle),
		idle:      idle,
		rps:       rate.Limit(rps),
		burst:     burst,
		whitelist: wl,
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	var limiter *rate.Limiter
	if v, ok := rl.limiters.Get(ip); ok {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
	}
	// re-set on every hit so the idle window restarts
	rl.limiters.Set(ip, limiter, rl.idle)
	return limiter
}

// Tracked reports how many client buckets are currently held.
func (rl *RateLimiter) Tracked() int {
	rl.limiters.DeleteExpired()
	return rl.limiters.ItemCount()
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if rl.whitelist[ip] {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.getLimiter(ip).Allow() {
			common.RespondError(w, time.Now(), nil, constants.MsgTooManyRequests, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
