package ratelimit

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Route path; a trailing "/" matches every path below it
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Tier limits overridable from the environment.
const (
	defaultAnalysisPerHour = 30
	defaultSearchPerHour   = 60
)

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	return LoadConfigFrom(os.Getenv)
}

// LoadConfigFrom builds the configuration from the variables getenv returns.
//
//	RATE_LIMIT_ENABLED            false disables limiting
//	RATE_LIMIT_DEFAULT_LIMIT      requests per window for unlisted routes
//	RATE_LIMIT_DEFAULT_WINDOW     window for unlisted routes
//	RATE_LIMIT_CLEANUP_INTERVAL   idle bucket sweep period
//	RATE_LIMIT_ANALYSIS_PER_HOUR  analysis calls per client and hour
//	RATE_LIMIT_SEARCH_PER_HOUR    recommendation calls per client and hour
//	RATE_LIMIT_WHITELIST          comma-separated client IPs never limited
//	RATE_LIMIT_BLACKLIST          comma-separated client IPs always rejected
func LoadConfigFrom(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.bool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.int("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: endpointConfigs(
			env.int("RATE_LIMIT_ANALYSIS_PER_HOUR", defaultAnalysisPerHour),
			env.int("RATE_LIMIT_SEARCH_PER_HOUR", defaultSearchPerHour),
		),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return endpointConfigs(defaultAnalysisPerHour, defaultSearchPerHour)
}

func endpointConfigs(analysisPerHour, searchPerHour int) []EndpointConfig {
	burst := func(limit int) int { return max(1, limit/6) }
	return []EndpointConfig{
		// Tier 1: calls that reach the reasoning service. A full run also
		// searches, so it gets a third of the analysis budget.
		{Path: "/run/stream", Method: "POST", Limit: max(1, analysisPerHour/3), Window: time.Hour, Burst: max(1, analysisPerHour/15)},
		{Path: "/analyze", Method: "POST", Limit: analysisPerHour, Window: time.Hour, Burst: burst(analysisPerHour)},

		// Tier 2: calls that reach the search service or parse uploads
		{Path: "/recommend", Method: "POST", Limit: searchPerHour, Window: time.Hour, Burst: burst(searchPerHour)},
		{Path: "/normalize", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/sessions/", Method: "POST", Limit: 2 * searchPerHour, Window: time.Hour, Burst: burst(2 * searchPerHour)},

		// Tier 3: session lifecycle writes
		{Path: "/sessions", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/sessions/", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},

		// Tier 4: reads use the default limit; see exemptRoutes for unlimited ones
	}
}

// envReader parses typed values, keeping the default for unset or invalid ones.
type envReader func(string) string

func (e envReader) int(key string, def int) int {
	v := strings.TrimSpace(e(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("ignoring invalid rate limit setting", slog.String("key", key), slog.String("value", v))
		return def
	}
	return n
}

func (e envReader) bool(key string, def bool) bool {
	v := strings.TrimSpace(e(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("ignoring invalid rate limit setting", slog.String("key", key), slog.String("value", v))
		return def
	}
	return b
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(e(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("ignoring invalid rate limit setting", slog.String("key", key), slog.String("value", v))
		return def
	}
	return d
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
