package ratelimit

import "strings"

// unlimitedEndpoints are never rate limited ("METHOD path")
var unlimitedEndpoints = map[string]bool{
	"GET /health": true,
}

// MatchEndpoint returns the configuration governing a request, or nil when the
// default limit applies. A configured path ending in "/" matches as a prefix
// and the longest such prefix wins; an exact path always beats a prefix.
// Method "*" matches any method.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimitedEndpoints[method+" "+path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method && c.Method != "*" {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) &&
			(best == nil || len(c.Path) > len(best.Path)) {
			best = c
		}
	}
	return best
}
