package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// NewConfig builds a limiter configuration allowing requestsPerMinute requests
// per client with the given burst on every endpoint without its own entry.
func NewConfig(enabled bool, requestsPerMinute, burst int, whitelist []string) *Config {
	return &Config{
		Enabled:         enabled,
		DefaultLimit:    requestsPerMinute,
		DefaultWindow:   time.Minute,
		DefaultBurst:    burst,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       toSet(whitelist),
		Blacklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// document extraction and OCR are the expensive path
		{Path: "/parse-resume", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
	}
}

func toSet(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item != "" {
			result[item] = true
		}
	}
	return result
}
