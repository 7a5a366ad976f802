package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/naimlawani01/facturerapide-api/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// windowCounter counts hits from one IP inside a fixed window. Once the
// window closes the next hit resets the count and opens a new one.
type windowCounter struct {
	hits      int
	windowEnd time.Time
	mu        sync.Mutex
}

// ipBucket keeps one counter per client IP. Each limiter owns its bucket so
// a burst on the API limiter never eats into the login budget.
type ipBucket struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
}

func newIPBucket() *ipBucket {
	return &ipBucket{counters: make(map[string]*windowCounter)}
}

func (b *ipBucket) counter(ip string) *windowCounter {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.counters[ip]
	if !ok {
		c = &windowCounter{}
		b.counters[ip] = c
	}
	return c
}

// take registers one hit and reports whether the IP stays under the limit.
// The second return value is the end of the current window, for Retry-After.
func (b *ipBucket) take(ip string, limit int, window time.Duration) (bool, time.Time) {
	c := b.counter(ip)
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.After(c.windowEnd) {
		c.hits = 0
		c.windowEnd = now.Add(window)
	}
	c.hits++
	return c.hits <= limit, c.windowEnd
}

// purge drops counters whose window ended, so IPs that never come back do
// not accumulate. Returns how many were removed and how many remain.
func (b *ipBucket) purge(now time.Time) (removed, remaining int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ip, c := range b.counters {
		c.mu.Lock()
		if now.After(c.windowEnd) {
			delete(b.counters, ip)
			removed++
		}
		c.mu.Unlock()
	}
	return removed, len(b.counters)
}

var (
	loginBucket = newIPBucket()
	apiBucket   = newIPBucket()
)

const loginAttemptsPerMinute = 20

// LoginRateLimiter caps authentication attempts per IP so credential
// stuffing cannot hammer bcrypt.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, _ := loginBucket.take(c.ClientIP(), loginAttemptsPerMinute, time.Minute)
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Trop de tentatives de connexion. Réessayez dans 1 minute."))
			return
		}
		c.Next()
	}
}

// RateLimiter is the general per-IP limiter applied to the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := apiBucket.take(c.ClientIP(), limit, window)
		if !ok {
			c.Header("Retry-After", windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Trop de requêtes. Réessayez dans un instant."))
			return
		}
		c.Next()
	}
}

const purgeInterval = 5 * time.Minute

func init() {
	go purgeLoop()
}

func purgeLoop() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		loginGone, loginLeft := loginBucket.purge(now)
		apiGone, apiLeft := apiBucket.purge(now)
		if loginGone > 0 || apiGone > 0 {
			log.Debug().
				Int("login_entries_purged", loginGone).
				Int("api_entries_purged", apiGone).
				Int("login_entries_remaining", loginLeft).
				Int("api_entries_remaining", apiLeft).
				Msg("rate limiter buckets purged")
		}
	}
}
