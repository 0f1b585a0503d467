package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Config is the complete claimroute configuration.
// It is loaded once at startup and never mutated afterwards.
type Config struct {
	Rules        RulesConfig        `yaml:"rules" mapstructure:"rules"`
	Extraction   ExtractionConfig   `yaml:"extraction" mapstructure:"extraction"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// RulesConfig drives validation and routing
type RulesConfig struct {
	MandatoryFields    []string `yaml:"mandatory_fields" mapstructure:"mandatory_fields"`
	FraudKeywords      []string `yaml:"fraud_keywords" mapstructure:"fraud_keywords"`
	InjuryKeywords     []string `yaml:"injury_keywords" mapstructure:"injury_keywords"`
	FastTrackThreshold float64  `yaml:"fast_track_threshold" mapstructure:"fast_track_threshold"`
}

// ExtractionConfig controls how fields are pulled out of documents
type ExtractionConfig struct {
	UseAI     bool   `yaml:"use_ai" mapstructure:"use_ai"`
	Pdftotext string `yaml:"pdftotext" mapstructure:"pdftotext"` // Path to the poppler pdftotext binary
}

// LLMConfig configures the optional AI field extractor
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// CacheConfig configures the extraction cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// HTTPConfig configures remote document loading and LLM transports
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent  string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBytes   int64         `yaml:"max_bytes" mapstructure:"max_bytes"`
	HTTPProxy  string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig throttles LLM extraction calls per provider
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls where results go
type OutputConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Summary bool   `yaml:"summary" mapstructure:"summary"` // Print a terminal summary per claim
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultMandatoryFields are required before a claim can be auto-routed
var DefaultMandatoryFields = []string{
	"policy_number",
	"policyholder_name",
	"date_of_loss",
	"location",
	"claim_type",
	"estimated_damage",
	"claimant",
}

// DefaultFraudKeywords flag a claim for investigation
var DefaultFraudKeywords = []string{
	"fraud",
	"fraudulent",
	"inconsistent",
	"staged",
	"suspicious",
	"fabricated",
	"false",
	"deceptive",
	"misleading",
	"contradictory",
}

// DefaultInjuryKeywords send a claim to the specialist queue
var DefaultInjuryKeywords = []string{
	"injury",
	"injured",
	"bodily injury",
	"personal injury",
	"medical",
	"hospital",
	"ambulance",
	"emergency",
	"paramedic",
}

// DefaultFastTrackThreshold is the exclusive upper bound for fast-track damage
const DefaultFastTrackThreshold = 25000.0

// DefaultRules returns the standard routing rules
func DefaultRules() RulesConfig {
	return RulesConfig{
		MandatoryFields:    append([]string(nil), DefaultMandatoryFields...),
		FraudKeywords:      append([]string(nil), DefaultFraudKeywords...),
		InjuryKeywords:     append([]string(nil), DefaultInjuryKeywords...),
		FastTrackThreshold: DefaultFastTrackThreshold,
	}
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Rules: DefaultRules(),
		Extraction: ExtractionConfig{
			UseAI:     true,
			Pdftotext: "pdftotext",
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   60,
			MaxTokens: 1500,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".claimroute/cache",
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "claimroute/0.1",
			MaxBytes:  20 << 20,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         2,
		},
		Output: OutputConfig{
			Dir:     "data/output",
			Summary: true,
		},
	}
}

// ConfigError reports a configuration problem that must stop startup
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Validate checks the rules section. Field names are checked by the validator,
// which owns the field table.
func (c *Config) Validate() error {
	return c.Rules.Validate()
}

// Validate checks that the rules can drive a deterministic routing decision
func (r RulesConfig) Validate() error {
	if len(r.MandatoryFields) == 0 {
		return &ConfigError{Field: "rules.mandatory_fields", Reason: "must not be empty"}
	}
	if math.IsNaN(r.FastTrackThreshold) || math.IsInf(r.FastTrackThreshold, 0) {
		return &ConfigError{Field: "rules.fast_track_threshold", Reason: "must be a finite number"}
	}
	for _, kw := range r.FraudKeywords {
		if strings.TrimSpace(kw) == "" {
			return &ConfigError{Field: "rules.fraud_keywords", Reason: "contains a blank keyword"}
		}
	}
	for _, kw := range r.InjuryKeywords {
		if strings.TrimSpace(kw) == "" {
			return &ConfigError{Field: "rules.injury_keywords", Reason: "contains a blank keyword"}
		}
	}
	return nil
}
