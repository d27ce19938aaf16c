package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config represents the main configuration structure
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	KeyDB       KeyDBConfig       `yaml:"keydb"`
	MemoryCache MemoryCacheConfig `yaml:"memory_cache"`
	Auth        AuthConfig        `yaml:"auth"`
	Sources     SourcesConfig     `yaml:"sources"`
}

// ServerConfig configures the public HTTP listener. Timeouts are in milliseconds.
type ServerConfig struct {
	Address         string `yaml:"address" validate:"required"`
	ReadTimeout     int    `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    int    `yaml:"write_timeout" validate:"gt=0"`
	IdleTimeout     int    `yaml:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout int    `yaml:"shutdown_timeout" validate:"gt=0"`
}

// LogConfig selects the zap preset
type LogConfig struct {
	Development bool `yaml:"development"`
}

// KeyDBConfig configures the remote cache
type KeyDBConfig struct {
	Enabled    bool             `yaml:"enabled"`
	Connection ConnectionConfig `yaml:"connection"`
	Keepalive  KeepaliveConfig  `yaml:"keepalive"`
}

// ConnectionConfig holds KeyDB timeouts in milliseconds
type ConnectionConfig struct {
	ConnectTimeout int `yaml:"connect_timeout" validate:"gt=0"`
	SendTimeout    int `yaml:"send_timeout" validate:"gt=0"`
	ReadTimeout    int `yaml:"read_timeout" validate:"gt=0"`
}

// KeepaliveConfig holds KeyDB connection pool settings
type KeepaliveConfig struct {
	PoolSize       int `yaml:"pool_size" validate:"gt=0"`
	MaxIdleTimeout int `yaml:"max_idle_timeout" validate:"gt=0"`
}

// MemoryCacheConfig configures the in-process store used when KeyDB is disabled.
// Size is in MB.
type MemoryCacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size" validate:"gt=0"`
}

// AuthConfig configures token issuing
type AuthConfig struct {
	TokenExpiryHours int `yaml:"token_expiry_hours" validate:"gt=0"`
}

// SourcesConfig configures the upstream data sources
type SourcesConfig struct {
	UpstreamTimeout int             `yaml:"upstream_timeout" validate:"gt=0"` // milliseconds
	MaxResponseSize int64           `yaml:"max_response_size" validate:"gt=0"`
	UserAgent       string          `yaml:"user_agent" validate:"required"`
	Activity        ActivityConfig  `yaml:"activity"`
	Weather         WeatherConfig   `yaml:"weather"`
	Headlines       HeadlinesConfig `yaml:"headlines"`
	Prices          PricesConfig    `yaml:"prices"`
	Probe           ProbeConfig     `yaml:"probe"`
}

type ActivityConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
}

type WeatherConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
	Units   string `yaml:"units" validate:"oneof=metric imperial standard"`
}

type HeadlinesConfig struct {
	BaseURL  string `yaml:"base_url" validate:"required,url"`
	PageSize int    `yaml:"page_size" validate:"gt=0,lte=100"`
}

type PricesConfig struct {
	BaseURL    string `yaml:"base_url" validate:"required,url"`
	MaxSymbols int    `yaml:"max_symbols" validate:"gt=0"`
}

// ProbeConfig configures the URL prober. Timeout is per URL, in milliseconds.
type ProbeConfig struct {
	Timeout int `yaml:"timeout" validate:"gt=0"`
	MaxURLs int `yaml:"max_urls" validate:"gt=0"`
}

var validate = validator.New()

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// Validate checks the configuration after defaults are applied
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	setDefault(&c.Server.Address, ":8080")
	setDefault(&c.Server.ReadTimeout, 30000)
	setDefault(&c.Server.WriteTimeout, 30000)
	setDefault(&c.Server.IdleTimeout, 60000)
	setDefault(&c.Server.ShutdownTimeout, 30000)

	setDefault(&c.KeyDB.Connection.ConnectTimeout, 1000)
	setDefault(&c.KeyDB.Connection.SendTimeout, 1000)
	setDefault(&c.KeyDB.Connection.ReadTimeout, 1000)
	setDefault(&c.KeyDB.Keepalive.PoolSize, 10)
	setDefault(&c.KeyDB.Keepalive.MaxIdleTimeout, 10000)

	setDefault(&c.MemoryCache.Size, 100)

	setDefault(&c.Auth.TokenExpiryHours, 7*24)

	setDefault(&c.Sources.UpstreamTimeout, 10000)
	setDefault(&c.Sources.MaxResponseSize, 10*1024*1024)
	setDefault(&c.Sources.UserAgent, "widget-gateway")
	setDefault(&c.Sources.Activity.BaseURL, "https://api.github.com")
	setDefault(&c.Sources.Weather.BaseURL, "https://api.openweathermap.org")
	setDefault(&c.Sources.Weather.Units, "metric")
	setDefault(&c.Sources.Headlines.BaseURL, "https://newsapi.org")
	setDefault(&c.Sources.Headlines.PageSize, 10)
	setDefault(&c.Sources.Prices.BaseURL, "https://api.coingecko.com")
	setDefault(&c.Sources.Prices.MaxSymbols, 25)
	setDefault(&c.Sources.Probe.Timeout, 5000)
	setDefault(&c.Sources.Probe.MaxURLs, 20)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

// GetConnectTimeout returns the KeyDB connect timeout
func (c *Config) GetConnectTimeout() time.Duration {
	return time.Duration(c.KeyDB.Connection.ConnectTimeout) * time.Millisecond
}

// GetSendTimeout returns the KeyDB write timeout
func (c *Config) GetSendTimeout() time.Duration {
	return time.Duration(c.KeyDB.Connection.SendTimeout) * time.Millisecond
}

// GetReadTimeout returns the KeyDB read timeout
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.KeyDB.Connection.ReadTimeout) * time.Millisecond
}

// GetMaxIdleTimeout returns the KeyDB idle connection timeout
func (c *Config) GetMaxIdleTimeout() time.Duration {
	return time.Duration(c.KeyDB.Keepalive.MaxIdleTimeout) * time.Millisecond
}

// GetUpstreamTimeout returns the default upstream HTTP timeout
func (c *Config) GetUpstreamTimeout() time.Duration {
	return time.Duration(c.Sources.UpstreamTimeout) * time.Millisecond
}

// GetProbeTimeout returns the per-URL probe timeout
func (c *Config) GetProbeTimeout() time.Duration {
	return time.Duration(c.Sources.Probe.Timeout) * time.Millisecond
}

// GetTokenExpiry returns the lifetime of minted tokens
func (c *Config) GetTokenExpiry() time.Duration {
	return time.Duration(c.Auth.TokenExpiryHours) * time.Hour
}

// GetReadTimeout returns the server read timeout
func (s ServerConfig) GetReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Millisecond
}

// GetWriteTimeout returns the server write timeout
func (s ServerConfig) GetWriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Millisecond
}

// GetIdleTimeout returns the server keep-alive idle timeout
func (s ServerConfig) GetIdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeout) * time.Millisecond
}

// GetShutdownTimeout returns the graceful shutdown deadline
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeout) * time.Millisecond
}
