package config

import (
	"fmt"
	"time"

	"vllm-benchmark/internal/endpoint"
)

const (
	DefaultModel          = "NousResearch/Meta-Llama-3.1-8B-Instruct"
	DefaultRequestTimeout = 30 * time.Second
	DefaultOutputTokens   = 50
	DefaultCooldown       = 5 * time.Second
	DefaultResultsFile    = "benchmark_results.json"
)

// Config represents the complete configuration for the benchmark tool
type Config struct {
	Endpoint EndpointConfig
	Model    string
	Prompt   string
	Logging  LoggingConfig
	Metrics  MetricsConfig
	Output   OutputConfig
}

// EndpointConfig describes the target server
type EndpointConfig struct {
	Backend         string
	URL             string
	APIKey          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// LoggingConfig selects the log level, format and optional log file
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// MetricsConfig enables the Prometheus endpoint when Addr is set
type MetricsConfig struct {
	Addr string
}

// OutputConfig defines output settings for the suite command
type OutputConfig struct {
	ResultsFile  string
	Format       string
	MarkdownFile string
}

// BenchmarkConfig is one benchmark configuration. It is not modified once a
// run starts.
type BenchmarkConfig struct {
	NumRequests    int           `mapstructure:"num_requests"`
	Concurrency    int           `mapstructure:"concurrency"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	OutputTokens   int           `mapstructure:"output_tokens"`
	UseLongContext bool          `mapstructure:"use_long_context"`
}

// SuiteConfig is the ordered list of configurations run by the suite command
type SuiteConfig struct {
	Configurations []BenchmarkConfig `mapstructure:"configurations"`
	Cooldown       time.Duration     `mapstructure:"cooldown"`
}

// DefaultConfigurations returns the standard concurrency progression
func DefaultConfigurations(useLongContext bool) []BenchmarkConfig {
	levels := []struct{ requests, concurrency int }{
		{10, 1},
		{100, 10},
		{500, 50},
		{1000, 100},
	}

	configs := make([]BenchmarkConfig, 0, len(levels))
	for _, l := range levels {
		configs = append(configs, BenchmarkConfig{
			NumRequests:    l.requests,
			Concurrency:    l.concurrency,
			RequestTimeout: DefaultRequestTimeout,
			OutputTokens:   100,
			UseLongContext: useLongContext,
		})
	}
	return configs
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch endpoint.Backend(c.Endpoint.Backend) {
	case endpoint.BackendOpenAI, "":
		if c.Endpoint.URL == "" {
			return fmt.Errorf("vllm_url is required")
		}
		if c.Endpoint.APIKey == "" {
			return fmt.Errorf("api_key is required")
		}
	case endpoint.BackendBedrock:
		// access_key_id and secret_access_key are optional
		// if empty, the SDK will use default credential chain
		if c.Endpoint.Region == "" {
			return fmt.Errorf("region is required for the bedrock backend")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Endpoint.Backend)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	switch c.Output.Format {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("format must be json or yaml")
	}
	return nil
}

// ClientConfig converts the endpoint section into an endpoint.ClientConfig
func (c *Config) ClientConfig(maxConns int) endpoint.ClientConfig {
	return endpoint.ClientConfig{
		Backend:   endpoint.Backend(c.Endpoint.Backend),
		BaseURL:   c.Endpoint.URL,
		APIKey:    c.Endpoint.APIKey,
		Region:    c.Endpoint.Region,
		AccessKey: c.Endpoint.AccessKeyID,
		SecretKey: c.Endpoint.SecretAccessKey,
		MaxConns:  maxConns,
	}
}

// Validate checks if the benchmark configuration is valid
func (b BenchmarkConfig) Validate() error {
	if b.NumRequests < 0 {
		return fmt.Errorf("num_requests must not be negative")
	}
	if b.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	if b.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if b.OutputTokens <= 0 {
		return fmt.Errorf("output_tokens must be positive")
	}
	return nil
}

// Validate checks every configuration in the suite
func (s *SuiteConfig) Validate() error {
	if len(s.Configurations) == 0 {
		return fmt.Errorf("at least one configuration is required")
	}
	for i, b := range s.Configurations {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("configuration %d: %w", i, err)
		}
	}
	if s.Cooldown < 0 {
		return fmt.Errorf("cooldown must not be negative")
	}
	return nil
}

// MaxConcurrency returns the largest concurrency in the suite
func (s *SuiteConfig) MaxConcurrency() int {
	m := 0
	for _, b := range s.Configurations {
		if b.Concurrency > m {
			m = b.Concurrency
		}
	}
	return m
}
