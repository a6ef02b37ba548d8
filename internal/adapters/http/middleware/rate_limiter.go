package middleware

import (
	"sync"
	"time"
)

// RateLimiter is a token bucket refilled continuously at FillRate tokens
// per second up to Capacity.
type RateLimiter struct {
	Capacity      float64
	FillRate      float64
	CurrentTokens float64
	LastUpdate    time.Time
	mutx          sync.Mutex
	now           func() time.Time
}

// DefaultIdleTTL is how long a client's bucket survives without requests.
const DefaultIdleTTL = 10 * time.Minute

type IPRateLimiter struct {
	// IdleTTL bounds how long an unused bucket is kept. Idle buckets are
	// swept at most once per IdleTTL, from RequestRateLimiter.
	IdleTTL   time.Duration
	limiter   map[string]*RateLimiter
	mutx      sync.Mutex
	now       func() time.Time
	lastSweep time.Time
}

func NewRateLimiter(capacity, fillrate float64) *RateLimiter {
	return newRateLimiter(capacity, fillrate, time.Now)
}

func newRateLimiter(capacity, fillrate float64, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		Capacity:      capacity,
		FillRate:      fillrate,
		CurrentTokens: capacity,
		LastUpdate:    now(),
		now:           now,
	}
}

func NewIpLimiter() *IPRateLimiter {
	return newIpLimiter(time.Now)
}

func newIpLimiter(now func() time.Time) *IPRateLimiter {
	return &IPRateLimiter{
		IdleTTL:   DefaultIdleTTL,
		limiter:   make(map[string]*RateLimiter),
		now:       now,
		lastSweep: now(),
	}
}

func (r *RateLimiter) RefillBucket() {
	now := r.now()
	elapsedTime := now.Sub(r.LastUpdate).Seconds()
	TokensToAdd := elapsedTime * r.FillRate

	r.CurrentTokens += TokensToAdd
	if r.CurrentTokens > r.Capacity {
		r.CurrentTokens = r.Capacity
	}

	r.LastUpdate = now
}

func (r *RateLimiter) AllowRequest() bool {
	r.mutx.Lock()
	defer r.mutx.Unlock()

	r.RefillBucket()

	if r.CurrentTokens >= 1 {
		r.CurrentTokens -= 1
		return true
	}

	return false
}

func (i *IPRateLimiter) RequestRateLimiter(ip string, capacity, fillrate float64) *RateLimiter {
	i.mutx.Lock()
	defer i.mutx.Unlock()

	i.sweep()

	limiter, exist := i.limiter[ip]
	if !exist {
		limiter = newRateLimiter(capacity, fillrate, i.now)
		i.limiter[ip] = limiter
	}

	return limiter
}

func (r *RateLimiter) idleSince() time.Time {
	r.mutx.Lock()
	defer r.mutx.Unlock()
	return r.LastUpdate
}

// sweep drops buckets idle for longer than IdleTTL. A client that returns
// later starts again with a full bucket.
func (i *IPRateLimiter) sweep() {
	now := i.now()
	if i.IdleTTL <= 0 || now.Sub(i.lastSweep) < i.IdleTTL {
		return
	}
	i.lastSweep = now

	for ip, limiter := range i.limiter {
		if now.Sub(limiter.idleSince()) > i.IdleTTL {
			delete(i.limiter, ip)
		}
	}
}

// Len returns the number of tracked clients.
func (i *IPRateLimiter) Len() int {
	i.mutx.Lock()
	defer i.mutx.Unlock()
	return len(i.limiter)
}
