package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config selects the model used for quiz extraction and how long a single
// document may take.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter"
	// or "mock".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one extraction request including retries. Whole
	// documents are sent in a single call, so the default is generous.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // OpenAI-compatible endpoint override
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures backoff for transient extraction failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// vendor binds one hosted provider to its Config fields. Environment
// variables are PDFQUIZ_<NAME>_API_KEY, _MODEL and, when baseURL is set,
// _BASE_URL.
type vendor struct {
	name      string
	discovery string // vendor's own key variable
	model     string // default model
	fields    func(*Config) (key, model, baseURL *string)
}

// vendors is in discovery order.
var vendors = []vendor{
	{"gemini", "GEMINI_API_KEY", "gemini-flash", func(c *Config) (*string, *string, *string) {
		return &c.Gemini.APIKey, &c.Gemini.Model, nil
	}},
	{"openai", "OPENAI_API_KEY", "gpt-4o-mini", func(c *Config) (*string, *string, *string) {
		return &c.OpenAI.APIKey, &c.OpenAI.Model, &c.OpenAI.BaseURL
	}},
	{"anthropic", "ANTHROPIC_API_KEY", "claude-haiku", func(c *Config) (*string, *string, *string) {
		return &c.Anthropic.APIKey, &c.Anthropic.Model, nil
	}},
	{"openrouter", "OPENROUTER_API_KEY", "google/gemini-2.0-flash-exp", func(c *Config) (*string, *string, *string) {
		return &c.OpenRouter.APIKey, &c.OpenRouter.Model, &c.OpenRouter.BaseURL
	}},
}

func (v vendor) env(suffix string) string {
	return "PDFQUIZ_" + strings.ToUpper(v.name) + "_" + suffix
}

func lookupVendor(name string) (vendor, bool) {
	for _, v := range vendors {
		if v.name == name {
			return v, true
		}
	}
	return vendor{}, false
}

// DefaultConfig returns the anthropic provider with every vendor's default
// model filled in.
func DefaultConfig() Config {
	cfg := Config{
		Provider: "anthropic",
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 2 * time.Minute,
	}
	for _, v := range vendors {
		_, model, _ := v.fields(&cfg)
		*model = v.model
	}
	return cfg
}

// ConfigFromEnv builds a Config from PDFQUIZ_* environment variables.
// When PDFQUIZ_LLM_PROVIDER is unset the vendor key variables are tried
// through DiscoverConfig.
func ConfigFromEnv() Config {
	return configFrom(os.Getenv)
}

func configFrom(getenv func(string) string) Config {
	cfg := DefaultConfig()
	if p := getenv("PDFQUIZ_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	} else if found, ok := discover(getenv); ok {
		cfg = found
	}

	for _, v := range vendors {
		key, model, baseURL := v.fields(&cfg)
		setString(key, getenv(v.env("API_KEY")))
		setString(model, getenv(v.env("MODEL")))
		if baseURL != nil {
			setString(baseURL, getenv(v.env("BASE_URL")))
		}
	}

	if d, err := time.ParseDuration(getenv("PDFQUIZ_LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	if n, err := strconv.Atoi(getenv("PDFQUIZ_LLM_MAX_ATTEMPTS")); err == nil && n > 0 {
		cfg.Retry.MaxAttempts = n
	}
	return cfg
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// DiscoverConfig returns a Config for the first vendor, in the order
// Gemini, OpenAI, Anthropic, OpenRouter, whose standard key variable is
// set.
func DiscoverConfig() (Config, bool) {
	return discover(os.Getenv)
}

func discover(getenv func(string) string) (Config, bool) {
	for _, v := range vendors {
		k := getenv(v.discovery)
		if k == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = v.name
		key, _, _ := v.fields(&cfg)
		*key = k
		return cfg, true
	}
	return Config{}, false
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	v, ok := lookupVendor(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key, _, _ := v.fields(&c); *key == "" {
		return fmt.Errorf("%s is required for the %s provider", v.env("API_KEY"), v.name)
	}
	return nil
}
