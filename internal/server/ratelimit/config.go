package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/career-coach/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// NewConfig builds the limiter configuration from the ratelimit config section.
func NewConfig(cfg config.RateLimitConfig) *Config {
	if !cfg.Enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    cfg.DefaultLimit,
		DefaultWindow:   cfg.DefaultWindow,
		CleanupInterval: cfg.CleanupInterval,
		Whitelist:       parseIPList(cfg.Whitelist),
		Blacklist:       parseIPList(cfg.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
// Quota-gated routes are also monthly-limited; these limits only absorb bursts.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model-backed operations
		{Path: "/v1/resume/analyze", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/v1/interview/start", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/v1/interview/", Method: "POST", Limit: 120, Window: time.Hour, Burst: 10},

		// Uploads and writes
		{Path: "/v1/resume/upload", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/v1/roadmap/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/v1/onboarding", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
