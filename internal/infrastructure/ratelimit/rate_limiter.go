package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionSendMessage = "send_message"
	ActionToggleLike  = "toggle_like"
	ActionAuth        = "auth"
)

// Policy is a token bucket shape: Burst tokens, refilled one every Every.
type Policy struct {
	Burst int
	Every time.Duration
}

func PerMinute(n int) Policy {
	if n <= 0 {
		n = 1
	}
	return Policy{Burst: n, Every: time.Minute / time.Duration(n)}
}

var defaultPolicies = map[string]Policy{
	ActionSendMessage: PerMinute(30),
	ActionToggleLike:  PerMinute(60),
	ActionAuth:        PerMinute(20),
}

var fallbackPolicy = PerMinute(20)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key and action.
type RateLimiter struct {
	policies map[string]Policy
	buckets  map[string]*entry
	mutex    sync.Mutex
	now      func() time.Time
}

func NewRateLimiter() *RateLimiter {
	policies := make(map[string]Policy, len(defaultPolicies))
	for action, p := range defaultPolicies {
		policies[action] = p
	}
	return &RateLimiter{
		policies: policies,
		buckets:  make(map[string]*entry),
		now:      time.Now,
	}
}

// SetPolicy overrides the bucket shape for an action. Existing buckets keep theirs.
func (rl *RateLimiter) SetPolicy(action string, p Policy) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	rl.policies[action] = p
}

// Allow consumes a token for key/action. When denied it also returns how long
// until the next token is available.
func (rl *RateLimiter) Allow(key, action string) (bool, time.Duration) {
	now := rl.now()
	lim := rl.limiter(key, action, now)

	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (rl *RateLimiter) limiter(key, action string, now time.Time) *rate.Limiter {
	id := key + ":" + action

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if e, ok := rl.buckets[id]; ok {
		e.lastSeen = now
		return e.limiter
	}

	p, ok := rl.policies[action]
	if !ok {
		p = fallbackPolicy
	}
	e := &entry{limiter: rate.NewLimiter(rate.Every(p.Every), p.Burst), lastSeen: now}
	rl.buckets[id] = e
	return e.limiter
}

// Cleanup drops buckets idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	now := rl.now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	for id, e := range rl.buckets {
		if now.Sub(e.lastSeen) > maxIdle {
			delete(rl.buckets, id)
		}
	}
}

// StartCleanupRoutine runs Cleanup until stop is closed.
func (rl *RateLimiter) StartCleanupRoutine(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			case <-stop:
				return
			}
		}
	}()
}
