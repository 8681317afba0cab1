package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Language service backend: "anthropic", "openai", or "gemini".
	ServiceBackend string `yaml:"service_backend"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	AnthropicModel  string `yaml:"anthropic_model"`

	OpenAIBaseURL string `yaml:"openai_base_url"`
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIModel   string `yaml:"openai_model"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	// Recursion-control policy
	MinFanoutSize int `yaml:"min_fanout_size"`
	MaxDepth      int `yaml:"max_depth"`

	// Service call policy
	ServiceConcurrency int           `yaml:"service_concurrency"`
	RetryCount         int           `yaml:"retry_count"`
	PerCallTimeout     time.Duration `yaml:"per_call_timeout"`

	// Worker pool
	WorkerCount  int `yaml:"worker_count"`
	MaxQueueSize int `yaml:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Chunking
	ChunkWindow int `yaml:"chunk_window"`

	// Job state
	JobTTL time.Duration `yaml:"job_ttl"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`
}

func defaults() Config {
	return Config{
		Port: "8090",

		ServiceBackend: "anthropic",
		AnthropicModel: "claude-sonnet-4-5-20250929",
		OpenAIModel:    "gpt-4o-mini",
		GeminiModel:    "gemini-2.0-flash",

		MinFanoutSize: 5,
		MaxDepth:      3,

		ServiceConcurrency: 8,
		RetryCount:         3,
		PerCallTimeout:     60 * time.Second,

		WorkerCount:  4,
		MaxQueueSize: 100,

		MaxUploadBytes: 52428800, // 50MB

		ChunkWindow: 1000,

		JobTTL: 1 * time.Hour,

		PDFFallbackPdftotext: true,
	}
}

// Load builds the configuration: defaults, then the optional YAML
// file named by DOCSTRUCT_CONFIG, then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("DOCSTRUCT_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.applyEnv()
	cfg.clamp()
	return cfg, nil
}

// applyFile overlays values from a YAML config file. Only keys present
// in the file are touched.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = envOr("PORT", c.Port)
	c.APIKey = envOr("DOCSTRUCT_API_KEY", c.APIKey)

	c.ServiceBackend = envOr("SERVICE_BACKEND", c.ServiceBackend)
	c.AnthropicAPIKey = envOr("ANTHROPIC_API_KEY", c.AnthropicAPIKey)
	c.AnthropicModel = envOr("ANTHROPIC_MODEL", c.AnthropicModel)
	c.OpenAIBaseURL = envOr("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.OpenAIAPIKey = envOr("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OpenAIModel = envOr("OPENAI_MODEL", c.OpenAIModel)
	c.GeminiAPIKey = envOr("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = envOr("GEMINI_MODEL", c.GeminiModel)

	c.MinFanoutSize = envInt("MIN_FANOUT_SIZE", c.MinFanoutSize)
	c.MaxDepth = envInt("MAX_DEPTH", c.MaxDepth)

	c.ServiceConcurrency = envInt("SERVICE_CONCURRENCY", c.ServiceConcurrency)
	c.RetryCount = envInt("RETRY_COUNT", c.RetryCount)
	c.PerCallTimeout = envDuration("PER_CALL_TIMEOUT", c.PerCallTimeout)

	c.WorkerCount = envInt("WORKER_COUNT", c.WorkerCount)
	c.MaxQueueSize = envInt("MAX_QUEUE_SIZE", c.MaxQueueSize)
	c.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.ChunkWindow = envInt("CHUNK_WINDOW", c.ChunkWindow)
	c.JobTTL = envDuration("JOB_TTL", c.JobTTL)
	c.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", c.PDFFallbackPdftotext)
}

func (c *Config) clamp() {
	d := defaults()
	if c.MinFanoutSize <= 0 {
		c.MinFanoutSize = d.MinFanoutSize
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = d.MaxDepth
	}
	if c.ServiceConcurrency <= 0 {
		c.ServiceConcurrency = d.ServiceConcurrency
	}
	if c.RetryCount <= 0 {
		c.RetryCount = d.RetryCount
	}
	if c.PerCallTimeout <= 0 {
		c.PerCallTimeout = d.PerCallTimeout
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.ChunkWindow <= 0 {
		c.ChunkWindow = d.ChunkWindow
	}
	if c.JobTTL <= 0 {
		c.JobTTL = d.JobTTL
	}
}

// Validate checks settings the server cannot run without.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCSTRUCT_API_KEY is required")
	}
	switch c.ServiceBackend {
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic backend")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai backend")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini backend")
		}
	default:
		return fmt.Errorf("unknown service backend: %q", c.ServiceBackend)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
