package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"naayee/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	API        APIConfig        `yaml:"api"`
	Session    SessionConfig    `yaml:"session"`
	Storage    StorageConfig    `yaml:"storage"`
	Redis      RedisConfig      `yaml:"redis"`
	Payment    PaymentConfig    `yaml:"payment"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type APIConfig struct {
	BaseURL        string  `yaml:"base_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

type SessionConfig struct {
	// state_ttl bounds how long an abandoned booking draft survives.
	StateTTLSeconds int `yaml:"state_ttl_seconds"`
}

type StorageConfig struct {
	// Path of the local sqlite store holding the session credential.
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type PaymentConfig struct {
	// Public checkout key handed to the payment collector. Empty means the
	// collector is unavailable and order collection fails up front.
	KeyID    string `yaml:"key_id"`
	Currency string `yaml:"currency"`
	Merchant string `yaml:"merchant"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

// Load reads the YAML config at configPath, expanding ${VAR} references from
// the environment (an optional .env is loaded first).
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expanded, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api base_url %q is not an absolute URL", c.API.BaseURL)
	}

	if c.Storage.Path == "" {
		return errors.New("storage path is required")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "salonbook"
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = models.DefaultRequestTimeout
	}
	if c.API.RateLimitBurst == 0 && c.API.RateLimitRPS > 0 {
		c.API.RateLimitBurst = 1
	}
	if c.Session.StateTTLSeconds == 0 {
		c.Session.StateTTLSeconds = models.DefaultStateTTL
	}
	if c.Payment.Currency == "" {
		c.Payment.Currency = models.DefaultCurrency
	}
	if c.Payment.Merchant == "" {
		c.Payment.Merchant = "Salon Booking"
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
}
