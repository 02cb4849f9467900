package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration for the routing audit service.
// Values come from configs/config.defaults.yaml and may be overridden
// with APP_-prefixed environment variables (APP_LOG_LEVEL, APP_NODES, ...).
type Config struct {
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Node cluster: ordered failover list of API hosts.
	Nodes       []string `mapstructure:"NODES" validate:"min=1,dive,required"`
	NodePort    int      `mapstructure:"NODE_PORT" validate:"gt=0"`
	NodeAPIPath string   `mapstructure:"NODE_API_PATH" validate:"required"`

	// Per-request policy.
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gt=0"`
	ThrottleDelay  time.Duration `mapstructure:"THROTTLE_DELAY" validate:"gte=0"`
	DeadThreshold  int           `mapstructure:"DEAD_THRESHOLD" validate:"gt=0"`
	Concurrency    int           `mapstructure:"CONCURRENCY" validate:"gt=0"`

	// MSISDN normalization.
	CountryCode      string `mapstructure:"COUNTRY_CODE" validate:"required,numeric"`
	MobilePrefix     string `mapstructure:"MOBILE_PREFIX" validate:"required,numeric"`
	SubscriberDigits int    `mapstructure:"SUBSCRIBER_DIGITS" validate:"gt=0"`

	// Routing rule table source: "file" or "postgres".
	RulesSource string `mapstructure:"RULES_SOURCE" validate:"oneof=file postgres"`
	RulesFile   string `mapstructure:"RULES_FILE"`
	PostgresDSN string `mapstructure:"POSTGRES_DSN"`

	// Optional verdict event publishing.
	NATSEnabled       bool   `mapstructure:"NATS_ENABLED"`
	NATSUrl           string `mapstructure:"NATS_URL"`
	NATSSubjectPrefix string `mapstructure:"NATS_SUBJECT_PREFIX"`

	MetricsPort int `mapstructure:"METRICS_PORT" validate:"gt=0"`

	// Batch I/O.
	InputFile string `mapstructure:"INPUT_FILE"`
	OutputDir string `mapstructure:"OUTPUT_DIR"`
}

// Load reads configuration for the named service. Defaults cover a local
// single-cluster setup; everything is overridable via env or yaml.
func Load(serviceName string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config.defaults")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetEnvPrefix("APP")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("NODES", []string{"10.25.100.50", "10.25.100.51", "10.25.110.50", "10.25.110.51"})
	v.SetDefault("NODE_PORT", 18092)
	v.SetDefault("NODE_API_PATH", "/api/v1/get_routing")
	v.SetDefault("REQUEST_TIMEOUT", "2s")
	v.SetDefault("THROTTLE_DELAY", "50ms")
	v.SetDefault("DEAD_THRESHOLD", 3)
	v.SetDefault("CONCURRENCY", 4)
	v.SetDefault("COUNTRY_CODE", "30")
	v.SetDefault("MOBILE_PREFIX", "69")
	v.SetDefault("SUBSCRIBER_DIGITS", 10)
	v.SetDefault("RULES_SOURCE", "file")
	v.SetDefault("RULES_FILE", "./configs/rules.yaml")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("NATS_ENABLED", false)
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("NATS_SUBJECT_PREFIX", "audit.routing")
	v.SetDefault("METRICS_PORT", 9105)
	v.SetDefault("INPUT_FILE", "")
	v.SetDefault("OUTPUT_DIR", "")

	if err := v.ReadInConfig(); err != nil {
		// A missing defaults file is fine; env and built-in defaults apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file for %s: %w", serviceName, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config for %s: %w", serviceName, err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config for %s: %w", serviceName, err)
	}
	if cfg.RulesSource == "postgres" && cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("RULES_SOURCE is postgres but POSTGRES_DSN is empty")
	}
	return &cfg, nil
}
