package ratelimit

import (
	"testing"
	"time"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadConfigFrom_Defaults(t *testing.T) {
	cfg := LoadConfigFrom(envOf(nil))

	if !cfg.Enabled {
		t.Fatal("Expected rate limiting to be enabled by default")
	}
	if cfg.DefaultLimit != 1000 || cfg.DefaultWindow != time.Minute {
		t.Errorf("Unexpected default tier: %d per %s", cfg.DefaultLimit, cfg.DefaultWindow)
	}
	if len(cfg.EndpointConfigs) != len(DefaultEndpointConfigs()) {
		t.Errorf("Expected the default endpoint tiers, got %d", len(cfg.EndpointConfigs))
	}
}

func TestLoadConfigFrom_Overrides(t *testing.T) {
	cfg := LoadConfigFrom(envOf(map[string]string{
		"RATE_LIMIT_DEFAULT_WINDOW":    "30s",
		"RATE_LIMIT_ANALYSIS_PER_HOUR": "90",
		"RATE_LIMIT_SEARCH_PER_HOUR":   "12",
		"RATE_LIMIT_WHITELIST":         "10.0.0.1, 10.0.0.2,",
		"RATE_LIMIT_CLEANUP_INTERVAL":  "not-a-duration",
	}))

	if cfg.DefaultWindow != 30*time.Second {
		t.Errorf("Expected window override, got %s", cfg.DefaultWindow)
	}
	if cfg.CleanupInterval != 5*time.Minute {
		t.Errorf("Expected invalid interval to keep the default, got %s", cfg.CleanupInterval)
	}
	if !cfg.Whitelist["10.0.0.1"] || !cfg.Whitelist["10.0.0.2"] || len(cfg.Whitelist) != 2 {
		t.Errorf("Unexpected whitelist: %v", cfg.Whitelist)
	}

	analyze := MatchEndpoint("/analyze", "POST", cfg.EndpointConfigs)
	if analyze == nil || analyze.Limit != 90 || analyze.Burst != 15 {
		t.Errorf("Expected analysis tier 90/h burst 15, got %+v", analyze)
	}
	stream := MatchEndpoint("/run/stream", "POST", cfg.EndpointConfigs)
	if stream == nil || stream.Limit != 30 {
		t.Errorf("Expected run tier to follow the analysis budget, got %+v", stream)
	}
	recommend := MatchEndpoint("/recommend", "POST", cfg.EndpointConfigs)
	if recommend == nil || recommend.Limit != 12 || recommend.Burst != 2 {
		t.Errorf("Expected search tier 12/h burst 2, got %+v", recommend)
	}
}

func TestLoadConfigFrom_Disabled(t *testing.T) {
	cfg := LoadConfigFrom(envOf(map[string]string{"RATE_LIMIT_ENABLED": "false"}))
	if cfg.Enabled {
		t.Error("Expected rate limiting to be disabled")
	}
}

func TestMatchEndpoint_LongestPrefix(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/sessions/", Method: "POST", Limit: 100},
		{Path: "/sessions/admin/", Method: "POST", Limit: 1},
	}

	if got := MatchEndpoint("/sessions/admin/purge", "POST", configs); got == nil || got.Limit != 1 {
		t.Errorf("Expected the longer prefix to win, got %+v", got)
	}
	if got := MatchEndpoint("/sessions/abc/analysis", "POST", configs); got == nil || got.Limit != 100 {
		t.Errorf("Expected the session prefix, got %+v", got)
	}
	if got := MatchEndpoint("/sessions/abc", "PUT", configs); got != nil {
		t.Errorf("Expected no match for another method, got %+v", got)
	}
}

func TestMatchEndpoint_Preflight(t *testing.T) {
	got := MatchEndpoint("/analyze", "OPTIONS", DefaultEndpointConfigs())
	if got == nil || got.Limit != 0 {
		t.Errorf("Expected CORS preflights to be unlimited, got %+v", got)
	}
}
