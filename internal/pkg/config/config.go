package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	CORS  CORSConfig
}

type AuthConfig struct {
	JWTSecret          string        `env:"JWT_SECRET,           required"`
	TokenTTL           time.Duration `env:"TOKEN_TTL,            default=1h"`
	LoginMaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS,   default=5"`
	LoginLockoutWindow time.Duration `env:"LOGIN_LOCKOUT_WINDOW, default=15m"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     required"`
	Database string        `env:"MONGO_DB,      default=employee_directory"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

// RedisConfig is optional. An empty Addr disables the login throttle.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type CORSConfig struct {
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS, default=*"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case strings.TrimSpace(c.Auth.JWTSecret) == "":
		return errors.New("JWT_SECRET must not be blank")
	case c.Auth.TokenTTL <= 0:
		return errors.New("TOKEN_TTL must be positive")
	case c.Auth.LoginMaxAttempts > 0 && c.Auth.LoginLockoutWindow <= 0:
		return errors.New("LOGIN_LOCKOUT_WINDOW must be positive when throttling is enabled")
	case c.Mongo.Database == "":
		return errors.New("MONGO_DB must not be empty")
	}
	return nil
}

// IsDevelopment reports whether the service runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// ThrottleEnabled reports whether failed logins are counted in Redis.
func (c *Config) ThrottleEnabled() bool {
	return c.Redis.Addr != "" && c.Auth.LoginMaxAttempts > 0
}
