// Package config manages environment variables.
//
// It reads variables from the `.env` file and the process environment,
// loads them into structured Go types, and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from every variable before it is mapped to a key.
//
//	EVENTHUB_SERVER__PORT -> server.port -> Config.Server.Port
const EnvPrefix = "EVENTHUB_"

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Auth          AuthConfig           `koanf:"auth"`
	Cache         CacheConfig          `koanf:"cache"`
	Jobs          JobsConfig           `koanf:"jobs"`
	Resources     ResourcesConfig      `koanf:"resources" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// RateLimit is the number of requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig contains the MongoDB connection string and timeouts.
type DatabaseConfig struct {
	URI            string        `koanf:"uri" validate:"required"`
	Name           string        `koanf:"name" validate:"required"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"min=1s"`
	PingTimeout    time.Duration `koanf:"ping_timeout" validate:"min=1s"`
}

// RedisConfig contains Redis connection details.
// An empty Address disables every Redis backed feature (cache, jobs).
type RedisConfig struct {
	Address string `koanf:"address" validate:"omitempty,hostname_port"`
}

// AuthConfig stores the Clerk secret key. When it is empty the write
// routes are served without authentication.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key"`
}

// CacheConfig controls the Redis list cache.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl" validate:"min=1s"`
}

// JobsConfig controls the asynq audit worker.
type JobsConfig struct {
	Enabled     bool `koanf:"enabled"`
	Concurrency int  `koanf:"concurrency" validate:"min=1"`
}

// ResourcesConfig tunes the generic resource handlers.
type ResourcesConfig struct {
	// DefaultListLimit is used when a list request carries no limit.
	DefaultListLimit int64 `koanf:"default_list_limit" validate:"required,min=1,max=100"`
}

// DefaultConfig returns the configuration used before any env var is applied.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "5000",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Name:           "events",
			ConnectTimeout: 10 * time.Second,
			PingTimeout:    10 * time.Second,
		},
		Cache: CacheConfig{
			TTL: time.Minute,
		},
		Jobs: JobsConfig{
			Concurrency: 5,
		},
		Resources: ResourcesConfig{
			DefaultListLimit: 6,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// envKey turns EVENTHUB_DATABASE__URI into database.uri.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// legacyKey maps the unprefixed variables of the original deployment.
// Anything else is skipped by returning an empty key.
func legacyKey(s string) string {
	switch s {
	case "MONGODB_URI":
		return "database.uri"
	case "PORT":
		return "server.port"
	}
	return ""
}

// LoadConfig loads configuration from environment variables, unmarshals it into
// Config, validates it, applies defaults, and returns the resulting config.
//
// Prefixed variables win over the legacy MONGODB_URI / PORT pair.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider("", ".", legacyKey), nil); err != nil {
		return nil, fmt.Errorf("could not load legacy env variables: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := DefaultConfig()

	err := k.UnmarshalWithConf("", mainConfig, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           mainConfig,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed; environment always follows primary.env.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// Validate runs the struct tag validation followed by the observability rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Observability != nil {
		if err := c.Observability.Validate(); err != nil {
			return fmt.Errorf("invalid observability config: %w", err)
		}
	}

	return nil
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Address != ""
}

// AuthEnabled reports whether write routes must be authenticated.
func (c *Config) AuthEnabled() bool {
	return c.Auth.SecretKey != ""
}
