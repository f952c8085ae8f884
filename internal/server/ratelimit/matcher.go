package ratelimit

import (
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Exact paths win over prefixes (paths ending in "/"); among prefixes the
// longest wins. Returns nil if no configuration matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Health checks are never limited
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	var best *EndpointConfig
	for i := range configs {
		config := &configs[i]
		if config.Method != method {
			continue
		}
		if config.Path == path {
			return config
		}
		if strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			if best == nil || len(config.Path) > len(best.Path) {
				best = config
			}
		}
	}
	return best
}
