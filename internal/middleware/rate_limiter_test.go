package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIPBucketTake(t *testing.T) {
	b := newIPBucket()

	for i := 0; i < 3; i++ {
		ok, _ := b.take("10.0.0.1", 3, time.Minute)
		assert.True(t, ok)
	}
	ok, windowEnd := b.take("10.0.0.1", 3, time.Minute)
	assert.False(t, ok)
	assert.True(t, windowEnd.After(time.Now()))

	// Another IP has its own counter.
	ok, _ = b.take("10.0.0.2", 3, time.Minute)
	assert.True(t, ok)
}

func TestIPBucketWindowReset(t *testing.T) {
	b := newIPBucket()

	ok, _ := b.take("10.0.0.1", 1, time.Nanosecond)
	assert.True(t, ok)

	time.Sleep(2 * time.Millisecond)
	ok, _ = b.take("10.0.0.1", 1, time.Minute)
	assert.True(t, ok)
}

func TestIPBucketPurge(t *testing.T) {
	b := newIPBucket()
	b.take("10.0.0.1", 5, time.Nanosecond)
	b.take("10.0.0.2", 5, time.Hour)

	time.Sleep(2 * time.Millisecond)
	removed, remaining := b.purge(time.Now())
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, remaining)
}

func TestRateLimiterRejectsOverLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", RateLimiter(2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "192.0.2.7:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
