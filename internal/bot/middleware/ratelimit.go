package middleware

import (
	"sync"
	"time"
)

// sweepEvery — раз в сколько вызовов Allow вычищать чужие устаревшие записи.
const sweepEvery = 1000

// RateLimiter ограничивает количество команд на пользователя
// алгоритмом скользящего окна. Лимитируются только команды, поэтому
// записей немного; устаревшие вычищаются лениво, без фоновой горутины.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[int64][]time.Time
	limit    int
	window   time.Duration
	calls    int
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[int64][]time.Time),
		limit:    limit,
		window:   window,
	}
}

// Allow сообщает, укладывается ли очередная команда пользователя в лимит.
// Разрешённая команда сразу учитывается в окне.
func (rl *RateLimiter) Allow(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)

	rl.calls++
	if rl.calls%sweepEvery == 0 {
		rl.sweepLocked(cutoff)
	}

	recent := prune(rl.requests[userID], cutoff)
	if len(recent) >= rl.limit {
		rl.requests[userID] = recent
		return false
	}

	rl.requests[userID] = append(recent, now)
	return true
}

// sweepLocked убирает пользователей, у которых не осталось запросов в окне.
func (rl *RateLimiter) sweepLocked(cutoff time.Time) {
	for userID, times := range rl.requests {
		recent := prune(times, cutoff)
		if len(recent) == 0 {
			delete(rl.requests, userID)
		} else {
			rl.requests[userID] = recent
		}
	}
}

func prune(times []time.Time, cutoff time.Time) []time.Time {
	var recent []time.Time
	for _, t := range times {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	return recent
}
