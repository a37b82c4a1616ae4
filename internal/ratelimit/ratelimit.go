package ratelimit

import (
	"sync"
	"time"
)

const (
	defaultLimit    = 10
	cleanupInterval = 5 * time.Minute
)

// Limiter - rate limiter на чат (sliding window за минуту)
type Limiter struct {
	mu       sync.Mutex
	requests map[int64][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type Config struct {
	RequestsPerMinute int
}

// New starts a limiter with a background cleanup goroutine; call Stop when
// the bot shuts down.
func New(cfg Config) *Limiter {
	l := newLimiter(cfg, time.Now)
	go l.cleanupLoop(cleanupInterval)
	return l
}

func newLimiter(cfg Config, now func() time.Time) *Limiter {
	limit := cfg.RequestsPerMinute
	if limit <= 0 {
		limit = defaultLimit
	}

	return &Limiter{
		requests: make(map[int64][]time.Time),
		limit:    limit,
		window:   time.Minute,
		now:      now,
		stop:     make(chan struct{}),
	}
}

func (l *Limiter) Allow(chatID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	fresh := l.freshLocked(chatID, now)

	if len(fresh) >= l.limit {
		l.requests[chatID] = fresh
		return false
	}

	l.requests[chatID] = append(fresh, now)
	return true
}

func (l *Limiter) RemainingRequests(chatID int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	cnt := 0
	for _, t := range l.requests[chatID] {
		if t.After(cutoff) {
			cnt++
		}
	}

	if rem := l.limit - cnt; rem > 0 {
		return rem
	}
	return 0
}

// ResetTime - когда освободится следующий слот
func (l *Limiter) ResetTime(chatID int64) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	ts := l.freshLocked(chatID, now)
	l.requests[chatID] = ts
	if len(ts) == 0 {
		return now
	}

	// timestamps добавляются по порядку, первый самый старый
	return ts[0].Add(l.window)
}

func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// freshLocked drops timestamps outside the window, reusing the backing
// array, so the result must be stored back. Caller holds l.mu.
func (l *Limiter) freshLocked(chatID int64, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	old := l.requests[chatID]
	fresh := old[:0]
	for _, t := range old {
		if t.After(cutoff) {
			fresh = append(fresh, t)
		}
	}
	return fresh
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-tick.C:
			l.cleanup()
		}
	}
}

func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id := range l.requests {
		if fresh := l.freshLocked(id, now); len(fresh) == 0 {
			delete(l.requests, id)
		} else {
			l.requests[id] = fresh
		}
	}
}
