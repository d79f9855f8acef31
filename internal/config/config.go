// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds server settings. Every field maps to one environment variable.
type Config struct {
	Port   string `env:"PORT"    envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"./data/ledger.db"`

	JWTSecret     string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL      time.Duration `env:"TOKEN_TTL"      envDefault:"24h"`
	TokenAudience string        `env:"TOKEN_AUDIENCE" envDefault:"splitledger-api"`
	TokenLeeway   time.Duration `env:"TOKEN_LEEWAY"   envDefault:"30s"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// RedisAddr enables the distributed settlement lock when set.
	RedisAddr      string        `env:"REDIS_ADDR"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB"         envDefault:"0"`
	LockExpiry     time.Duration `env:"LOCK_EXPIRY"      envDefault:"10s"`
	LockTries      int           `env:"LOCK_TRIES"       envDefault:"32"`
	LockRetryDelay time.Duration `env:"LOCK_RETRY_DELAY" envDefault:"50ms"`

	SQLiteBusyTimeout time.Duration `env:"SQLITE_BUSY_TIMEOUT" envDefault:"5s"`
}

// Load reads .env files (when present) into the process environment and
// parses it. Variables already set take precedence over .env values.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads configuration from the current environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// UseRedis reports whether a distributed lock is configured.
func (c *Config) UseRedis() bool {
	return c.RedisAddr != ""
}
