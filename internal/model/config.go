package model

import "time"

// Config holds the complete ancestree configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Tree        TreeConfig        `yaml:"tree" mapstructure:"tree"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// HTTPConfig controls fetching of remote sheet exports
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
}

// CacheConfig controls caching of fetched exports
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// TreeConfig controls root selection and mixture computation
type TreeConfig struct {
	RootToken     string  `yaml:"root_token" mapstructure:"root_token"`         // Self-referential token identifying the root person
	MixEpsilon    float64 `yaml:"mix_epsilon" mapstructure:"mix_epsilon"`       // Weights below this are dropped from origin mixtures
	ComputeOrigin bool    `yaml:"compute_origin" mapstructure:"compute_origin"` // Whether to compute origin mixtures at all
}

// ConcurrencyConfig controls batch worker counts
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig controls per-host rate limiting of remote fetches
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	Indent  bool `yaml:"indent" mapstructure:"indent"`
}

// LLMConfig controls the optional narrative generation
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, ollama, "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"-"` // From environment only, never persisted
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "ancestree/0.2 (+https://github.com/avolkov/ancestree)",
			MaxBodyBytes: 5_000_000,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "", // Resolved to ~/.ancestree/cache at runtime
			TTL:     24 * time.Hour,
		},
		Tree: TreeConfig{
			RootToken:     "me",
			MixEpsilon:    0.001,
			ComputeOrigin: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2.0,
			BurstSize:         5,
		},
		Output: OutputConfig{
			Indent: true,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 1000,
		},
	}
}
