// Package ratelimit limits requests per client and endpoint with token buckets.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// bucketIdleTTL is how long an unused bucket survives cleanup.
const bucketIdleTTL = time.Hour

// defaultBucket keys the per-client bucket shared by every unmatched request.
const defaultBucket = "default"

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter manages rate limiting for multiple clients.
type Limiter struct {
	mu          sync.Mutex
	buckets     map[string]*bucket
	config      *Config
	now         func() time.Time
	cleanupStop chan struct{}
	stopOnce    sync.Once
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
		now:     time.Now,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupStop = make(chan struct{})
		go l.cleanup(config.CleanupInterval)
	}

	return l
}

// Allow reports whether a request from clientID to endpoint is allowed and consumes a token if so.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	// Matched endpoints are keyed by their configured path so prefix entries
	// like /v1/interview/ share one bucket per client. Everything else shares
	// the client's default bucket, whatever the concrete path.
	key := clientID + ":" + defaultBucket
	endpointConfig := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if endpointConfig == nil {
		endpointConfig = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	} else {
		key = clientID + ":" + endpointConfig.Path + ":" + method
	}
	if endpointConfig.Limit <= 0 || endpointConfig.Window <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	b := l.getBucket(key, endpointConfig, now)
	allowed := b.limiter.AllowN(now, 1)

	tokens := b.limiter.TokensAt(now)
	info := Info{
		Allowed:   allowed,
		Limit:     endpointConfig.Limit,
		Remaining: max(0, int(tokens)),
		ResetTime: now.Add(secondsUntil(float64(b.limiter.Burst())-tokens, b.limiter.Limit())),
	}
	if !allowed {
		info.RetryAfter = secondsUntil(1-tokens, b.limiter.Limit())
	}
	return allowed, info
}

func secondsUntil(tokensNeeded float64, r rate.Limit) time.Duration {
	if tokensNeeded <= 0 || r <= 0 {
		return 0
	}
	return time.Duration(tokensNeeded / float64(r) * float64(time.Second))
}

func (l *Limiter) getBucket(key string, cfg *EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		burst := cfg.Burst
		if burst <= 0 {
			burst = cfg.Limit
		}
		every := rate.Limit(float64(cfg.Limit) / cfg.Window.Seconds())
		b = &bucket{limiter: rate.NewLimiter(every, burst)}
		// Buckets start full.
		b.limiter.SetBurstAt(now, burst)
		l.buckets[key] = b
	}
	b.lastAccess = now
	return b
}

func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanupBuckets()
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupBuckets removes buckets that haven't been accessed in over an hour.
func (l *Limiter) cleanupBuckets() {
	cutoff := l.now().Add(-bucketIdleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// bucketCount returns the number of live buckets.
func (l *Limiter) bucketCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}
