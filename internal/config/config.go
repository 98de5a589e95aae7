// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/skillbridge/internal/analysis"
	"github.com/jonathan/skillbridge/internal/ingestion"
	"github.com/jonathan/skillbridge/internal/llm"
	"github.com/jonathan/skillbridge/internal/search"
	"github.com/jonathan/skillbridge/internal/types"
)

// Limits and defaults.
const (
	DefaultNumResults     = types.DefaultMaxCandidates
	MaxNumResults         = 10
	DefaultMaxInputChars  = ingestion.DefaultMaxChars
	DefaultMaxFileSizeMB  = 10
	DefaultSearchCacheTTL = search.DefaultCacheTTL
	DefaultSessionTTL     = time.Hour
	minAPIKeyLength       = 10
)

var placeholderKeys = []string{"your_api_key", "api_key_here", "xxx"}

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, and environment
// variables override file values.
type Config struct {
	// Reasoning service
	LLMProvider     string  `json:"llm_provider,omitempty"`      // gemini or groq
	LLMModel        string  `json:"llm_model,omitempty"`         // Model override
	Temperature     float32 `json:"temperature,omitempty"`       // Sampling temperature
	MaxOutputTokens int     `json:"max_output_tokens,omitempty"` // Reply token limit
	GeminiAPIKey    string  `json:"gemini_api_key,omitempty"`
	GroqAPIKey      string  `json:"groq_api_key,omitempty"`

	// Search service
	SearchProvider     string `json:"search_provider,omitempty"` // serper, youtube or customsearch
	SerperAPIKey       string `json:"serper_api_key,omitempty"`
	YouTubeAPIKey      string `json:"youtube_api_key,omitempty"`
	CustomSearchAPIKey string `json:"customsearch_api_key,omitempty"`
	CustomSearchCX     string `json:"customsearch_cx,omitempty"`
	NumResults         int    `json:"num_results,omitempty"` // Videos kept per recommendation

	// Limits
	MaxInputChars      int  `json:"max_input_chars,omitempty"` // Resume text cap
	MaxJobChars        int  `json:"max_job_chars,omitempty"`   // Job description cap
	MaxFileSizeMB      int  `json:"max_file_size_mb,omitempty"`
	HighScoreThreshold int  `json:"high_score_threshold,omitempty"`
	ScoreTolerance     *int `json:"score_tolerance,omitempty"` // 0 keeps scores strictly in range

	// Storage and sessions
	DatabaseURL    string `json:"database_url,omitempty"`     // PostgreSQL connection URL for the search cache
	SearchCacheTTL string `json:"search_cache_ttl,omitempty"` // Go duration, e.g. "24h"
	SessionTTL     string `json:"session_ttl,omitempty"`      // Go duration, e.g. "1h"

	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load reads the optional config file at path, applies environment
// overrides and fills defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(Defaults())
	return &merged, nil
}

// Defaults returns the values used for unset fields.
func Defaults() Config {
	return Config{
		LLMProvider:        string(llm.ProviderGemini),
		Temperature:        0.3,
		MaxOutputTokens:    2000,
		SearchProvider:     string(search.ProviderSerper),
		NumResults:         DefaultNumResults,
		MaxInputChars:      DefaultMaxInputChars,
		MaxJobChars:        DefaultMaxInputChars,
		MaxFileSizeMB:      DefaultMaxFileSizeMB,
		HighScoreThreshold: types.DefaultHighScoreThreshold,
		ScoreTolerance:     intPtr(analysis.DefaultScoreTolerance),
		SearchCacheTTL:     DefaultSearchCacheTTL.String(),
		SessionTTL:         DefaultSessionTTL.String(),
	}
}

// ApplyEnv overrides fields with the environment variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"LLM_PROVIDER":         &c.LLMProvider,
		"LLM_MODEL":            &c.LLMModel,
		"GEMINI_API_KEY":       &c.GeminiAPIKey,
		"GROQ_API_KEY":         &c.GroqAPIKey,
		"SEARCH_PROVIDER":      &c.SearchProvider,
		"SERPER_API_KEY":       &c.SerperAPIKey,
		"YOUTUBE_API_KEY":      &c.YouTubeAPIKey,
		"CUSTOMSEARCH_API_KEY": &c.CustomSearchAPIKey,
		"CUSTOMSEARCH_CX":      &c.CustomSearchCX,
		"DATABASE_URL":         &c.DatabaseURL,
	}
	for name, field := range strs {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			*field = v
		}
	}

	ints := map[string]*int{
		"NUM_RESULTS":      &c.NumResults,
		"MAX_INPUT_CHARS":  &c.MaxInputChars,
		"MAX_JOB_CHARS":    &c.MaxJobChars,
		"MAX_FILE_SIZE_MB": &c.MaxFileSizeMB,
	}
	for name, field := range ints {
		v := strings.TrimSpace(getenv(name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %v", name, err)
		}
		*field = n
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Keys of the selected providers are checked with ValidateAPIKey by callers
// that need them, so commands without network access still run.
func (c *Config) Validate() error {
	switch llm.Provider(c.LLMProvider) {
	case "", llm.ProviderGemini, llm.ProviderGroq:
	default:
		return fmt.Errorf("config error: unknown llm_provider %q", c.LLMProvider)
	}
	switch search.Provider(c.SearchProvider) {
	case "", search.ProviderSerper, search.ProviderYouTube:
	case search.ProviderCustomSearch:
		if c.CustomSearchCX == "" {
			return fmt.Errorf("config error: 'customsearch_cx' is required for the customsearch provider")
		}
	default:
		return fmt.Errorf("config error: unknown search_provider %q", c.SearchProvider)
	}

	if c.NumResults < 0 || c.NumResults > MaxNumResults {
		return fmt.Errorf("config error: 'num_results' must be between 1 and %d", MaxNumResults)
	}
	if c.MaxInputChars < 0 || c.MaxJobChars < 0 {
		return fmt.Errorf("config error: character limits must be non-negative")
	}
	if c.MaxFileSizeMB < 0 {
		return fmt.Errorf("config error: 'max_file_size_mb' must be non-negative")
	}
	if c.HighScoreThreshold < 0 || c.HighScoreThreshold > types.MaxScore {
		return fmt.Errorf("config error: 'high_score_threshold' must be between 0 and %d", types.MaxScore)
	}
	if c.ScoreTolerance != nil && *c.ScoreTolerance < 0 {
		return fmt.Errorf("config error: 'score_tolerance' must be non-negative")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}
	for name, v := range map[string]string{"search_cache_ttl": c.SearchCacheTTL, "session_ttl": c.SessionTTL} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("config error: invalid '%s': %v", name, err)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.LLMProvider == "" {
		result.LLMProvider = defaults.LLMProvider
	}
	if result.LLMModel == "" {
		result.LLMModel = defaults.LLMModel
	}
	if result.SearchProvider == "" {
		result.SearchProvider = defaults.SearchProvider
	}
	if result.SearchCacheTTL == "" {
		result.SearchCacheTTL = defaults.SearchCacheTTL
	}
	if result.SessionTTL == "" {
		result.SessionTTL = defaults.SessionTTL
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}
	if result.MaxOutputTokens == 0 {
		result.MaxOutputTokens = defaults.MaxOutputTokens
	}
	if result.NumResults == 0 {
		result.NumResults = defaults.NumResults
	}
	if result.MaxInputChars == 0 {
		result.MaxInputChars = defaults.MaxInputChars
	}
	if result.MaxJobChars == 0 {
		result.MaxJobChars = defaults.MaxJobChars
	}
	if result.MaxFileSizeMB == 0 {
		result.MaxFileSizeMB = defaults.MaxFileSizeMB
	}
	if result.HighScoreThreshold == 0 {
		result.HighScoreThreshold = defaults.HighScoreThreshold
	}
	if result.ScoreTolerance == nil {
		result.ScoreTolerance = defaults.ScoreTolerance
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LLMKeyName returns the environment variable holding the selected
// reasoning provider's key.
func (c *Config) LLMKeyName() string {
	if llm.Provider(c.LLMProvider) == llm.ProviderGroq {
		return "GROQ_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// SearchKeyName returns the environment variable holding the selected
// search provider's key.
func (c *Config) SearchKeyName() string {
	switch search.Provider(c.SearchProvider) {
	case search.ProviderYouTube:
		return "YOUTUBE_API_KEY"
	case search.ProviderCustomSearch:
		return "CUSTOMSEARCH_API_KEY"
	default:
		return "SERPER_API_KEY"
	}
}

// LLMAPIKey returns the key of the selected reasoning provider.
func (c *Config) LLMAPIKey() string {
	if llm.Provider(c.LLMProvider) == llm.ProviderGroq {
		return c.GroqAPIKey
	}
	return c.GeminiAPIKey
}

// LLMConfig returns the client configuration of the selected provider.
func (c *Config) LLMConfig() *llm.Config {
	base := llm.ConfigFor(llm.Provider(c.LLMProvider))
	if base == nil {
		base = llm.DefaultConfig()
	}
	out := base.WithModel(c.LLMModel)
	if c.Temperature > 0 {
		out.Temperature = c.Temperature
	}
	if c.MaxOutputTokens > 0 {
		out.MaxOutputTokens = c.MaxOutputTokens
	}
	return out
}

// SearchAPIKey returns the key of the selected search provider.
func (c *Config) SearchAPIKey() string {
	switch search.Provider(c.SearchProvider) {
	case search.ProviderYouTube:
		return c.YouTubeAPIKey
	case search.ProviderCustomSearch:
		return c.CustomSearchAPIKey
	default:
		return c.SerperAPIKey
	}
}

// SearchConfig returns the configuration of the selected search provider.
func (c *Config) SearchConfig() search.Config {
	return search.Config{
		Provider: search.Provider(c.SearchProvider),
		APIKey:   c.SearchAPIKey(),
		CX:       c.CustomSearchCX,
	}
}

// DocumentOptions returns resume and job text normalization options.
func (c *Config) DocumentOptions() ingestion.Options {
	opts := ingestion.DefaultOptions()
	if c.MaxInputChars > 0 {
		opts.MaxChars = c.MaxInputChars
	}
	if c.MaxJobChars > 0 {
		opts.MaxJobChars = c.MaxJobChars
	}
	if c.MaxFileSizeMB > 0 {
		opts.MaxBytes = c.MaxFileSizeMB << 20
	}
	return opts
}

// AnalysisOptions returns reply validation options.
func (c *Config) AnalysisOptions() analysis.Options {
	opts := analysis.DefaultOptions()
	if c.HighScoreThreshold > 0 {
		opts.HighScoreThreshold = c.HighScoreThreshold
	}
	if c.ScoreTolerance != nil {
		opts.ScoreTolerance = *c.ScoreTolerance
	}
	return opts
}

// CacheTTL returns the search cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	return parseDuration(c.SearchCacheTTL, DefaultSearchCacheTTL)
}

// SessionLifetime returns the idle lifetime of server sessions.
func (c *Config) SessionLifetime() time.Duration {
	return parseDuration(c.SessionTTL, DefaultSessionTTL)
}

func intPtr(n int) *int {
	return &n
}

func parseDuration(v string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ValidateAPIKey rejects missing, short and placeholder keys.
func ValidateAPIKey(name, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%s is not set", name)
	}
	if len(key) < minAPIKeyLength {
		return fmt.Errorf("%s looks too short to be a real key", name)
	}
	lower := strings.ToLower(key)
	for _, p := range placeholderKeys {
		if strings.Contains(lower, p) {
			return fmt.Errorf("%s still holds a placeholder value", name)
		}
	}
	return nil
}
