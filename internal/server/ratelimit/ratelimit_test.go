package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, config *Config) *Limiter {
	t.Helper()
	limiter := NewLimiter(config)
	t.Cleanup(limiter.Stop)
	return limiter
}

func TestLimiter_AllowUpToLimit(t *testing.T) {
	limiter := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/match-resume", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/match-resume", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Positive(t, info.RetryAfter)
}

func TestLimiter_Bypass(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{
			name:   "disabled",
			config: &Config{Enabled: false},
		},
		{
			name: "whitelisted client",
			config: &Config{
				Enabled:       true,
				DefaultLimit:  1,
				DefaultWindow: time.Minute,
				Whitelist:     map[string]bool{"127.0.0.1": true},
			},
		},
		{
			name:   "health check",
			config: &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := newTestLimiter(t, tt.config)
			for i := 0; i < 50; i++ {
				allowed, info := limiter.Allow("127.0.0.1", "/health", "GET")
				require.True(t, allowed, "request %d", i+1)
				assert.Equal(t, 0, info.Limit)
			}
		})
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	limiter := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"192.168.1.1": true},
	})

	allowed, _ := limiter.Allow("192.168.1.1", "/match-resume", "POST")
	assert.False(t, allowed)

	allowed, _ = limiter.Allow("192.168.1.2", "/match-resume", "POST")
	assert.True(t, allowed)
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/parse-resume", Method: "POST", Limit: 5, Window: time.Hour, Burst: 5},
		},
	})

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/parse-resume", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 5, info.Limit)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/parse-resume", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 5, info.Limit)

	// other endpoints keep their own bucket at the default limit
	allowed, info = limiter.Allow("127.0.0.1", "/match-resume", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)

	// and other clients are unaffected
	allowed, _ = limiter.Allow("127.0.0.2", "/parse-resume", "POST")
	assert.True(t, allowed)
}

func TestLimiter_Burst(t *testing.T) {
	limiter := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		DefaultBurst:  3,
	})

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/match-resume", "POST")
		require.True(t, allowed, "burst request %d", i+1)
	}
	allowed, _ := limiter.Allow("127.0.0.1", "/match-resume", "POST")
	assert.False(t, allowed, "burst exhausted before the first refill")
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})

	var wg sync.WaitGroup
	var allowedCount atomic.Int32
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/match-resume", "POST"); allowed {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), allowedCount.Load())
}

func TestLimiter_BackgroundCleanupKeepsState(t *testing.T) {
	limiter := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    10,
		DefaultWindow:   time.Minute,
		CleanupInterval: 50 * time.Millisecond,
	})

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/match-resume", "POST")
		require.True(t, allowed)
	}

	time.Sleep(120 * time.Millisecond)

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/match-resume", "POST")
		assert.True(t, allowed)
	}
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	limiter := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	limiter.Allow("10.0.0.1", "/match-resume", "POST")
	limiter.Allow("10.0.0.2", "/match-resume", "POST")

	limiter.cleanupBuckets(time.Now().Add(-time.Hour))
	assert.Len(t, limiter.buckets, 2, "recent buckets survive")

	limiter.cleanupBuckets(time.Now().Add(time.Second))
	assert.Empty(t, limiter.buckets, "stale buckets are removed")
}

func TestLimiter_ResetTime(t *testing.T) {
	limiter := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute, DefaultBurst: 2})

	_, info := limiter.Allow("10.0.0.1", "/match-resume", "POST")
	assert.Equal(t, 1, info.Remaining)
	assert.True(t, info.ResetTime.After(time.Now()))
	assert.LessOrEqual(t, time.Until(info.ResetTime), 2*time.Second)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := newTestLimiter(t, nil)

	allowed, info := limiter.Allow("127.0.0.1", "/match-resume", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestNewConfig(t *testing.T) {
	config := NewConfig(true, 60, 10, []string{" 10.0.0.1 ", ""})

	assert.Equal(t, 60, config.DefaultLimit)
	assert.Equal(t, 10, config.DefaultBurst)
	assert.Equal(t, time.Minute, config.DefaultWindow)
	assert.Equal(t, map[string]bool{"10.0.0.1": true}, config.Whitelist)
	assert.NotNil(t, MatchEndpoint("/parse-resume", "POST", config.EndpointConfigs))
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/parse-resume", Method: "POST", Limit: 1},
		{Path: "/admin/", Method: "POST", Limit: 2},
		{Path: "/admin/jobs/", Method: "POST", Limit: 3},
		{Path: "/admin/jobs/purge", Method: "*", Limit: 4},
	}

	tests := []struct {
		path   string
		method string
		want   int // -1 for no match
	}{
		{"/parse-resume", "POST", 1},
		{"/parse-resume", "GET", -1},
		{"/admin/reload", "POST", 2},
		{"/admin/jobs/42", "POST", 3},
		{"/admin/jobs/purge", "DELETE", 4},
		{"/admin/jobs/purge", "POST", 4},
		{"/health", "GET", 0},
		{"/match-resume", "POST", -1},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.want == -1 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Limit)
		})
	}
}
