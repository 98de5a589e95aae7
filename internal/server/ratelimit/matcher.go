package ratelimit

import (
	"net/http"
	"strings"
)

// exemptRoutes are never limited.
var exemptRoutes = map[string]string{
	"/health": http.MethodGet,
}

// unlimited is returned for exempt routes; a zero Limit disables the check.
var unlimited = EndpointConfig{}

// MatchEndpoint returns the configuration for a request, or nil when the
// default limit applies. An exact path match wins; otherwise the longest
// configured prefix ending in "/" is used. CORS preflights and exempt routes
// are unlimited.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodOptions || exemptRoutes[path] == method {
		cfg := unlimited
		cfg.Path, cfg.Method = path, method
		return &cfg
	}

	var best *EndpointConfig
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != method {
			continue
		}
		if cfg.Path == path {
			return cfg
		}
		if strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) {
			if best == nil || len(cfg.Path) > len(best.Path) {
				best = cfg
			}
		}
	}
	return best
}
