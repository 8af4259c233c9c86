// Package config loads the process-wide configuration from the
// environment. All values are fixed at startup.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// appName is the envconfig prefix: CARPRICE_MODEL_PATH, CARPRICE_REDIS_HOST, ...
const appName = "CARPRICE"

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port string `envconfig:"PORT" default:"8000"`
}

// Addr returns "host:port".
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// RedisConfig holds the cache-store connection settings. The timeouts
// bound every store operation so an unreachable Redis cannot stall a
// request.
type RedisConfig struct {
	Host     string `envconfig:"HOST" required:"true"`
	Port     string `envconfig:"PORT" required:"true"`
	Password string `envconfig:"PASSWORD" default:""`
	DB       int    `envconfig:"DB" default:"0"`

	// TTLSeconds is the cache TTL; the audit log keeps records 24x longer.
	TTLSeconds int `envconfig:"TTL" required:"true"`

	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"2s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"2s"`
}

// Addr returns "host:port".
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// TTL returns the cache TTL as a duration.
func (c RedisConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `envconfig:"SERVER"`
	Redis  RedisConfig  `envconfig:"REDIS"`

	ModelPath       string `envconfig:"MODEL_PATH" required:"true"`
	FeatureInfoPath string `envconfig:"FEATURE_INFO_PATH" required:"true"`
	ModelVersion    string `envconfig:"MODEL_VERSION" required:"true"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// Validate checks values envconfig cannot express.
func (c Config) Validate() error {
	if c.Redis.TTLSeconds <= 0 {
		return fmt.Errorf("redis ttl must be positive (got %d)", c.Redis.TTLSeconds)
	}
	return nil
}

// Load reads .env when present, then fills the configuration from the
// environment with the CARPRICE prefix.
func Load() (Config, error) {
	// Missing .env is fine, the environment alone is authoritative.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(appName, &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
