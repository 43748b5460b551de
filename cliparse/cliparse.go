package cliparse

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	SessionSecret string
	SessionStore  string
	SessionTTL    time.Duration
	SecureCookies bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	IPHashSalt    string
	TraceEndpoint string
}

// RegisterFlags adds every setting to fs, with defaults.
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) {
	// Network config (can be CLI args or env)
	fs.IntVarP(&cfg.Port, "port", "p", 3318, "Server port")
	fs.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Database URL")
	fs.StringVarP(&cfg.DatabaseType, "database-type", "t", "sqlite", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session signing secret (prefer env)")
	fs.StringVar(&cfg.IPHashSalt, "ip-salt", "", "IP hash salt (prefer env, defaults to session secret)")

	fs.StringVar(&cfg.SessionStore, "session-store", StoreMemory, "Session store (memory or redis)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 12*time.Hour, "Session lifetime")
	fs.BoolVar(&cfg.SecureCookies, "secure-cookies", false, "Mark session cookies Secure")

	fs.StringVar(&cfg.RedisAddr, "redis-addr", "", "Redis address for the redis session store")
	fs.StringVar(&cfg.RedisPassword, "redis-password", "", "Redis password (prefer env)")
	fs.IntVar(&cfg.RedisDB, "redis-db", 0, "Redis database number")

	fs.StringVar(&cfg.TraceEndpoint, "trace-endpoint", "", "OTLP/HTTP trace endpoint (empty disables tracing)")
}

// Resolve fills settings whose flag was not given from the environment.
// Flags win over env, env wins over defaults.
func Resolve(fs *pflag.FlagSet, cfg *Config) error {
	str := func(flag, env string, dst *string) {
		if fs.Changed(flag) {
			return
		}
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	str("database-url", "DATABASE_URL", &cfg.DatabaseURL)
	str("database-type", "DATABASE_TYPE", &cfg.DatabaseType)
	str("session-secret", "SESSION_SECRET", &cfg.SessionSecret)
	str("ip-salt", "IP_HASH_SALT", &cfg.IPHashSalt)
	str("session-store", "SESSION_STORE", &cfg.SessionStore)
	str("redis-addr", "REDIS_ADDR", &cfg.RedisAddr)
	str("redis-password", "REDIS_PASSWORD", &cfg.RedisPassword)
	str("trace-endpoint", "TRACE_ENDPOINT", &cfg.TraceEndpoint)

	if v := os.Getenv("PORT"); v != "" && !fs.Changed("port") {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid PORT env variable")
		}
		cfg.Port = port
	}
	if v := os.Getenv("REDIS_DB"); v != "" && !fs.Changed("redis-db") {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid REDIS_DB env variable")
		}
		cfg.RedisDB = n
	}
	if v := os.Getenv("SESSION_TTL"); v != "" && !fs.Changed("session-ttl") {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return errors.New("invalid SESSION_TTL env variable")
		}
		cfg.SessionTTL = ttl
	}
	if v := os.Getenv("SECURE_COOKIES"); v != "" && !fs.Changed("secure-cookies") {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New("invalid SECURE_COOKIES env variable")
		}
		cfg.SecureCookies = secure
	}

	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = cfg.SessionSecret
	}

	return nil
}

// RequireDatabase checks the settings every command needs.
func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if c.DatabaseType != "sqlite" && c.DatabaseType != "postgres" {
		return fmt.Errorf("unknown database type %q (use sqlite or postgres)", c.DatabaseType)
	}
	return nil
}

// RequireServer checks the settings the HTTP server needs.
func (c Config) RequireServer() error {
	if err := c.RequireDatabase(); err != nil {
		return err
	}

	// Secrets - MUST be provided
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET required")
	}

	switch c.SessionStore {
	case StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR required for the redis session store")
		}
	default:
		return fmt.Errorf("unknown session store %q (use memory or redis)", c.SessionStore)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.SessionTTL <= 0 {
		return errors.New("session TTL must be positive")
	}
	return nil
}

// ParseFlags parses args and resolves a server configuration.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := pflag.NewFlagSet("ballotbox", pflag.ContinueOnError)
	RegisterFlags(fs, &cfg)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := Resolve(fs, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.RequireServer(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}
