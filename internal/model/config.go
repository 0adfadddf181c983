package model

import "time"

// Config is the full runtime configuration
type Config struct {
	HTTP        HTTPConfig   `json:"http" yaml:"http"`
	Cache       CacheConfig  `json:"cache" yaml:"cache"`
	Index       IndexConfig  `json:"index" yaml:"index"`
	Vault       VaultConfig  `json:"vault" yaml:"vault"`
	Ledger      LedgerConfig `json:"ledger" yaml:"ledger"`
	Weights     Weights      `json:"weights" yaml:"weights"`
	Concurrency Concurrency  `json:"concurrency" yaml:"concurrency"`
	LLM         LLMConfig    `json:"llm" yaml:"llm"`
	Output      OutputConfig `json:"output" yaml:"output"`
}

// HTTPConfig controls the fetch layer
type HTTPConfig struct {
	Timeout      time.Duration `json:"timeout" yaml:"timeout"`
	UserAgent    string        `json:"user_agent" yaml:"user_agent"`
	MaxBodyBytes int64         `json:"max_body_bytes" yaml:"max_body_bytes"`
	InsecureTLS  bool          `json:"insecure_tls" yaml:"insecure_tls"`
}

// CacheConfig controls the fetch response cache
type CacheConfig struct {
	Enabled   bool          `json:"enabled" yaml:"enabled"`
	Dir       string        `json:"dir" yaml:"dir"`
	MemoryTTL time.Duration `json:"memory_ttl" yaml:"memory_ttl"`
	DiskTTL   time.Duration `json:"disk_ttl" yaml:"disk_ttl"`
}

// IndexConfig locates the SQLite content index
type IndexConfig struct {
	Path string `json:"path" yaml:"path"`
}

// VaultConfig controls vault note emission
type VaultConfig struct {
	Dir string `json:"dir" yaml:"dir"` // empty disables note writing
}

// LedgerConfig locates the append-only audit log
type LedgerConfig struct {
	Path string `json:"path" yaml:"path"`
}

// Concurrency controls batch processing
type Concurrency struct {
	Workers           int     `json:"workers" yaml:"workers"`
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `json:"burst" yaml:"burst"`
}

// LLMConfig controls the optional note summarizer.
// The summarizer never affects credibility scoring.
type LLMConfig struct {
	Provider string `json:"provider,omitempty" yaml:"provider"`
	Model    string `json:"model,omitempty" yaml:"model"`
	APIKey   string `json:"-" yaml:"-"`
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url"`
}

// OutputConfig controls CLI verbosity
type OutputConfig struct {
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Veridex/0.1 (+https://github.com/ppiankov/veridex)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".veridex-cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Index: IndexConfig{
			Path: "veridex.db",
		},
		Ledger: LedgerConfig{
			Path: "veridex-ledger.jsonl",
		},
		Weights: DefaultWeights(),
		Concurrency: Concurrency{
			Workers:           4,
			RequestsPerSecond: 2.0,
			Burst:             5,
		},
		Output: OutputConfig{},
	}
}
