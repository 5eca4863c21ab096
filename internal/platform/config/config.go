// Package config loads process configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)

// Config is the full process configuration.
type Config struct {
	Server Server
	Store  Store
	Redis  RedisConfig
	Audit  Audit
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"PLANETS_ADDR,default=:8080"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	LogFormat       string        `env:"LOG_FORMAT,default=json"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,default=30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// Store selects and configures the planet record store.
type Store struct {
	Driver       string `env:"STORE_DRIVER,default=memory"`
	DatabaseURL  string `env:"DATABASE_URL"`
	SQLitePath   string `env:"SQLITE_PATH,default=planets.db"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS,default=10"`
	Migrate      bool   `env:"DB_MIGRATE,default=true"`
	Seed         bool   `env:"SEED_PLANETS,default=false"`
}

// RedisConfig configures the shared Redis client.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE,default=10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS,default=2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT,default=5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT,default=3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT,default=3s"`
}

// Audit configures where planet lifecycle events go. With no brokers the
// events are only logged.
type Audit struct {
	KafkaBrokers string `env:"KAFKA_BROKERS"`
	Topic        string `env:"AUDIT_TOPIC,default=planets.audit"`
	Partitions   int32  `env:"AUDIT_TOPIC_PARTITIONS,default=1"`
	Replication  int16  `env:"AUDIT_TOPIC_REPLICATION,default=1"`

	BreakerCooldown time.Duration `env:"AUDIT_BREAKER_COOLDOWN,default=30s"`
}

// Brokers splits the comma separated broker list.
func (a Audit) Brokers() []string {
	var out []string
	for _, b := range strings.Split(a.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// FromEnv loads .env when present and decodes the environment.
func FromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Decode()
}

// Decode reads the current environment without touching .env files.
func Decode() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements envdecode cannot express.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case DriverRedis:
		if c.Redis.URL == "" {
			return errors.New("REDIS_URL is required for the redis store")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	return nil
}
