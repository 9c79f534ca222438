package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Keys shared by flags, env vars and config files
const (
	KeyBackend         = "backend"
	KeyURL             = "vllm_url"
	KeyAPIKey          = "api_key"
	KeyRegion          = "region"
	KeyAccessKeyID     = "access_key_id"
	KeySecretAccessKey = "secret_access_key"
	KeyModel           = "model"
	KeyPrompt          = "prompt"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyLogFile         = "log_file"
	KeyMetricsAddr     = "metrics_addr"
	KeyNoColor         = "no_color"
	KeyWorkers         = "workers"

	KeyNumRequests    = "num_requests"
	KeyConcurrency    = "concurrency"
	KeyRequestTimeout = "request_timeout"
	KeyOutputTokens   = "output_tokens"
	KeyUseLongContext = "use_long_context"

	KeyConfigurations = "configurations"
	KeyCooldown       = "cooldown"
	KeyOutput         = "output"
	KeyFormat         = "format"
	KeyMarkdown       = "markdown"
	KeyInput          = "input"
)

// EnvPrefix is prepended to every key when read from the environment
const EnvPrefix = "VLLM_BENCH"

// NewViper returns a viper instance with defaults and env binding applied.
// When path is non-empty the file is read; a missing file is an error.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyBackend, "openai")
	v.SetDefault(KeyModel, DefaultModel)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyRequestTimeout, DefaultRequestTimeout.Seconds())
	v.SetDefault(KeyOutputTokens, DefaultOutputTokens)
	v.SetDefault(KeyCooldown, DefaultCooldown.Seconds())
	v.SetDefault(KeyOutput, DefaultResultsFile)
	v.SetDefault(KeyFormat, "json")

	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return v, nil
}

// ReadFile merges the config file at path into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load materializes the tool configuration from v and validates it
func Load(v *viper.Viper) (*Config, error) {
	cfg := Build(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Build materializes the tool configuration without validating it
func Build(v *viper.Viper) *Config {
	return &Config{
		Endpoint: EndpointConfig{
			Backend:         v.GetString(KeyBackend),
			URL:             v.GetString(KeyURL),
			APIKey:          v.GetString(KeyAPIKey),
			Region:          v.GetString(KeyRegion),
			AccessKeyID:     v.GetString(KeyAccessKeyID),
			SecretAccessKey: v.GetString(KeySecretAccessKey),
		},
		Model:  v.GetString(KeyModel),
		Prompt: v.GetString(KeyPrompt),
		Logging: LoggingConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
			File:   v.GetString(KeyLogFile),
		},
		Metrics: MetricsConfig{Addr: v.GetString(KeyMetricsAddr)},
		Output: OutputConfig{
			ResultsFile:  v.GetString(KeyOutput),
			Format:       strings.ToLower(v.GetString(KeyFormat)),
			MarkdownFile: v.GetString(KeyMarkdown),
		},
	}
}

// LoadBenchmark reads a single benchmark configuration from the top level keys
func LoadBenchmark(v *viper.Viper) (BenchmarkConfig, error) {
	timeout, err := ParseDuration(v.Get(KeyRequestTimeout))
	if err != nil {
		return BenchmarkConfig{}, fmt.Errorf("%s: %w", KeyRequestTimeout, err)
	}

	b := BenchmarkConfig{
		NumRequests:    v.GetInt(KeyNumRequests),
		Concurrency:    v.GetInt(KeyConcurrency),
		RequestTimeout: timeout,
		OutputTokens:   v.GetInt(KeyOutputTokens),
		UseLongContext: v.GetBool(KeyUseLongContext),
	}
	if err := b.Validate(); err != nil {
		return BenchmarkConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return b, nil
}

// LoadSuite reads the configuration sequence. Without a configurations list
// the default progression is used. Entries that omit request_timeout or
// output_tokens inherit the top level request_timeout and 100 tokens.
func LoadSuite(v *viper.Viper) (*SuiteConfig, error) {
	useLong := v.GetBool(KeyUseLongContext)

	timeout, err := ParseDuration(v.Get(KeyRequestTimeout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyRequestTimeout, err)
	}
	cooldown, err := ParseDuration(v.Get(KeyCooldown))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyCooldown, err)
	}

	suite := &SuiteConfig{Cooldown: cooldown}

	if v.IsSet(KeyConfigurations) {
		var configs []BenchmarkConfig
		if err := v.UnmarshalKey(KeyConfigurations, &configs, viper.DecodeHook(durationHook)); err != nil {
			return nil, fmt.Errorf("failed to parse configurations: %w", err)
		}
		for i := range configs {
			if configs[i].RequestTimeout == 0 {
				configs[i].RequestTimeout = timeout
			}
			if configs[i].OutputTokens == 0 {
				configs[i].OutputTokens = 100
			}
			configs[i].UseLongContext = configs[i].UseLongContext || useLong
		}
		suite.Configurations = configs
	} else {
		suite.Configurations = DefaultConfigurations(useLong)
		for i := range suite.Configurations {
			suite.Configurations[i].RequestTimeout = timeout
		}
	}

	if err := suite.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return suite, nil
}

// ParseDuration accepts a Go duration string ("1m30s") or a number of seconds
func ParseDuration(raw any) (time.Duration, error) {
	switch val := raw.(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return val, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case int64:
		return time.Duration(val) * time.Second, nil
	case float64:
		return time.Duration(val * float64(time.Second)), nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, nil
		}
		if secs, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(secs * float64(time.Second)), nil
		}
		return time.ParseDuration(s)
	default:
		return 0, fmt.Errorf("unsupported duration value %v", raw)
	}
}

var durationType = reflect.TypeOf(time.Duration(0))

var durationHook mapstructure.DecodeHookFuncType = func(from, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	return ParseDuration(data)
}
