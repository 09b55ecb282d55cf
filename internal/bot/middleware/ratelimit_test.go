package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(10), "запрос %d в пределах лимита", i+1)
	}
	assert.False(t, rl.Allow(10))
}

func TestRateLimiterIsPerUser(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	assert.True(t, rl.Allow(10))
	assert.False(t, rl.Allow(10))
	assert.True(t, rl.Allow(20), "лимит другого пользователя не затронут")
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond)

	assert.True(t, rl.Allow(10))
	assert.True(t, rl.Allow(10))
	assert.False(t, rl.Allow(10))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, rl.Allow(10))
}
