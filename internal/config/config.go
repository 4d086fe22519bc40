package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderAzure  = "azure"
	ProviderOpenAI = "openai"
)

type Config struct {
	Server    ServerConfig
	Model     ModelConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64

	// LegacyErrors reproduces the old wire behaviour: every failure is
	// reported with status 200 and a {"trace": ...} body.
	LegacyErrors bool

	// MaxInFlight bounds concurrent summarize calls. Zero disables the limit.
	MaxInFlight  int
	QueueSize    int
	QueueTimeout time.Duration
}

// ModelConfig holds credentials and routing for the hosted model.
type ModelConfig struct {
	Provider   string
	APIKey     string
	APIVersion string
	Endpoint   string
	Deployment string
	Timeout    time.Duration
}

type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

type MetricsConfig struct {
	Enabled bool
}

var defaults = map[string]any{
	"model_provider":        ProviderAzure,
	"api_version":           "2024-06-01",
	"model_timeout":         "120s",
	"server_host":           "0.0.0.0",
	"server_port":           "5000",
	"server_read_timeout":   "30s",
	"server_write_timeout":  "150s",
	"server_max_body_bytes": 5 << 20,
	"server_legacy_errors":  false,
	"server_max_in_flight":  0,
	"server_queue_size":     16,
	"server_queue_timeout":  "60s",
	"rate_limit_rpm":        0,
	"rate_limit_burst":      5,
	"log_level":             "info",
	"log_format":            "text",
	"log_file":              "",
	"metrics_enabled":       true,
}

// LoadConfig reads configuration from the process environment. If envFile
// names an existing dotenv file its values are used for anything the
// environment does not set.
func LoadConfig(envFile string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range []string{"api_key", "azure_endpoint", "azure_model_deployment"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
			}
			slog.Debug("loaded env file", "path", envFile)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("server_host"),
			Port:         v.GetString("server_port"),
			ReadTimeout:  v.GetDuration("server_read_timeout"),
			WriteTimeout: v.GetDuration("server_write_timeout"),
			MaxBodyBytes: v.GetInt64("server_max_body_bytes"),
			LegacyErrors: v.GetBool("server_legacy_errors"),
			MaxInFlight:  v.GetInt("server_max_in_flight"),
			QueueSize:    v.GetInt("server_queue_size"),
			QueueTimeout: v.GetDuration("server_queue_timeout"),
		},
		Model: ModelConfig{
			Provider:   strings.ToLower(v.GetString("model_provider")),
			APIKey:     v.GetString("api_key"),
			APIVersion: v.GetString("api_version"),
			Endpoint:   v.GetString("azure_endpoint"),
			Deployment: v.GetString("azure_model_deployment"),
			Timeout:    v.GetDuration("model_timeout"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: v.GetInt("rate_limit_rpm"),
			Burst:             v.GetInt("rate_limit_burst"),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
			File:   v.GetString("log_file"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics_enabled"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("configuration loaded")
	return cfg, nil
}

// DefaultEnvFile is the dotenv path used when no flag is given: ENV_FILE if
// set, otherwise ".env".
func DefaultEnvFile() string {
	if path := os.Getenv("ENV_FILE"); path != "" {
		return path
	}
	return ".env"
}

// Validate reports every missing or inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Model.Provider {
	case ProviderAzure:
		if c.Model.APIVersion == "" {
			errs = append(errs, errors.New("API_VERSION is required for the azure provider"))
		}
	case ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("unknown MODEL_PROVIDER %q", c.Model.Provider))
	}
	if c.Model.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required"))
	}
	if c.Model.Endpoint == "" {
		errs = append(errs, errors.New("AZURE_ENDPOINT is required"))
	}
	if c.Model.Deployment == "" {
		errs = append(errs, errors.New("AZURE_MODEL_DEPLOYMENT is required"))
	}
	if c.Model.Timeout <= 0 {
		errs = append(errs, errors.New("MODEL_TIMEOUT must be positive"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("SERVER_MAX_BODY_BYTES must be positive"))
	}
	if c.Server.MaxInFlight < 0 || c.Server.QueueSize < 0 {
		errs = append(errs, errors.New("SERVER_MAX_IN_FLIGHT and SERVER_QUEUE_SIZE must not be negative"))
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPM must not be negative"))
	}
	if c.RateLimit.RequestsPerMinute > 0 && c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be positive when rate limiting is enabled"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}
