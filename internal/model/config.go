package model

import "time"

// Config is the immutable runtime configuration threaded through the
// pipeline's entry points. Nothing reads ambient process state after startup.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Oracle    OracleConfig    `yaml:"oracle"`
	Store     StoreConfig     `yaml:"store"`
	Batch     BatchConfig     `yaml:"batch"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Output    OutputConfig    `yaml:"output"`
}

// HTTPConfig controls document fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
}

// OracleConfig controls the extraction/verification/decision oracle.
// Model routing mirrors the stage split: a fast model for first-pass
// extraction, a careful model for verification and decision.
type OracleConfig struct {
	Provider          string `yaml:"provider"`
	APIKey            string `yaml:"-"`
	BaseURL           string `yaml:"base_url"`
	ExtractionModel   string `yaml:"extraction_model"`
	VerificationModel string `yaml:"verification_model"`
	DecisionModel     string `yaml:"decision_model"`
	MaxTokens         int    `yaml:"max_tokens"`
	Timeout           int    `yaml:"timeout_seconds"`
	MaxDocumentChars  int    `yaml:"max_document_chars"`
}

// StoreConfig selects and configures the durable store
type StoreConfig struct {
	Driver         string `yaml:"driver"` // "postgres" or "memory"
	URL            string `yaml:"-"`
	MaxConnections int32  `yaml:"max_connections"`
}

// BatchConfig controls the batch orchestrator
type BatchConfig struct {
	Delay             time.Duration `yaml:"delay"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// TelemetryConfig configures anonymous usage tracking; disabled when the
// endpoint is empty
type TelemetryConfig struct {
	Endpoint string `yaml:"endpoint"`
	Domain   string `yaml:"domain"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       5 * time.Minute,
			UserAgent:     "Reckon/0.2 (+https://github.com/docintel/reckon)",
			MaxBodyBytes:  20_000_000,
			RespectRobots: true,
			CacheTTL:      30 * time.Minute,
		},
		Oracle: OracleConfig{
			Provider:          "anthropic",
			ExtractionModel:   "claude-3-5-haiku-20241022",
			VerificationModel: "claude-3-5-sonnet-20241022",
			DecisionModel:     "claude-3-5-sonnet-20241022",
			MaxTokens:         4096,
			Timeout:           120,
			MaxDocumentChars:  80_000,
		},
		Store: StoreConfig{
			Driver:         "postgres",
			MaxConnections: 10,
		},
		Batch: BatchConfig{
			Delay:             2 * time.Second,
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Telemetry: TelemetryConfig{},
		Output:    OutputConfig{},
	}
}
