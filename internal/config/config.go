// Package config loads runtime configuration from defaults, an optional
// config file, an optional .env file and GHG_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. GHG_SERVICE_API_KEY.
const EnvPrefix = "GHG"

// DefaultConfigName is the config file looked up in the working directory.
const DefaultConfigName = "ghg-footprint"

// Config is the full runtime configuration.
type Config struct {
	Service ServiceConfig `yaml:"service" mapstructure:"service"`
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Report  ReportConfig  `yaml:"report" mapstructure:"report"`
	Pathway PathwayConfig `yaml:"pathway" mapstructure:"pathway"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
}

// ServiceConfig configures the Emission Factor Service client.
type ServiceConfig struct {
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	ClientID    string        `yaml:"client_id" mapstructure:"client_id"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RateLimit   float64       `yaml:"rate_limit" mapstructure:"rate_limit"`
	Concurrency int           `yaml:"concurrency" mapstructure:"concurrency"`
	Offline     bool          `yaml:"offline" mapstructure:"offline"`
}

// Enabled reports whether the service should be used: credentials are set
// and offline mode is off.
func (s ServiceConfig) Enabled() bool {
	return !s.Offline && s.APIKey != "" && s.ClientID != ""
}

type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

type ReportConfig struct {
	// TopN zero keeps the catalog's hotspot count.
	TopN   int    `yaml:"top_n" mapstructure:"top_n"`
	Format string `yaml:"format" mapstructure:"format"`
}

type PathwayConfig struct {
	// BaseYear zero selects the profile reporting year or the current year.
	BaseYear int `yaml:"base_year" mapstructure:"base_year"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

type ServerConfig struct {
	Listen string `yaml:"listen" mapstructure:"listen"`
}

// LoadOptions locates optional files. Empty fields use the defaults:
// ./ghg-footprint.yaml and ./.env, both optional.
type LoadOptions struct {
	ConfigFile string
	EnvFile    string
}

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load builds the configuration. Precedence, highest first: environment,
// .env file, config file, defaults. An explicitly named config file must exist.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	} else if opts.EnvFile != "" {
		return nil, fmt.Errorf("config: env file %s: %w", opts.EnvFile, err)
	}

	v := viper.New()
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.base_url", "https://api.emissions.ibm.com")
	v.SetDefault("service.api_key", "")
	v.SetDefault("service.client_id", "")
	v.SetDefault("service.timeout", 10*time.Second)
	v.SetDefault("service.rate_limit", 10.0)
	v.SetDefault("service.concurrency", 4)
	v.SetDefault("service.offline", false)
	v.SetDefault("catalog.path", "")
	v.SetDefault("report.top_n", 0)
	v.SetDefault("report.format", "text")
	v.SetDefault("pathway.base_year", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("server.listen", ":8080")
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Service.Timeout <= 0:
		return fmt.Errorf("%w: service.timeout must be positive (got %s)", ErrInvalidConfig, c.Service.Timeout)
	case c.Service.RateLimit < 0:
		return fmt.Errorf("%w: service.rate_limit must not be negative (got %g)", ErrInvalidConfig, c.Service.RateLimit)
	case c.Service.Concurrency < 0:
		return fmt.Errorf("%w: service.concurrency must not be negative (got %d)", ErrInvalidConfig, c.Service.Concurrency)
	case c.Pathway.BaseYear < 0:
		return fmt.Errorf("%w: pathway.base_year must not be negative (got %d)", ErrInvalidConfig, c.Pathway.BaseYear)
	}
	switch c.Log.Format {
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("%w: log.format must be %q or %q (got %q)", ErrInvalidConfig, LogFormatConsole, LogFormatJSON, c.Log.Format)
	}
	return nil
}
