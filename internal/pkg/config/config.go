package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Session storage backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// APIConfig points the portal at the marketplace backend.
type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:8000/api/v1"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=15s"`
}

type SessionConfig struct {
	// Secret signs the session cookie and seals stored tokens.
	Secret       string        `env:"SESSION_SECRET"`
	Store        string        `env:"SESSION_STORE,  default=memory"`
	TTL          time.Duration `env:"SESSION_TTL,    default=168h"`
	CookieName   string        `env:"SESSION_COOKIE, default=portal_session"`
	CookieSecure bool          `env:"COOKIE_SECURE,  default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate rejects combinations the portal cannot run with.
func (c *Config) Validate() error {
	switch c.Session.Store {
	case StoreMemory, StoreRedis, StoreMongo:
	default:
		return fmt.Errorf("config: SESSION_STORE must be one of memory, redis, mongo (got %q)", c.Session.Store)
	}
	if c.Session.Secret == "" && c.IsProduction() {
		return errors.New("config: SESSION_SECRET is required in production")
	}
	if c.API.BaseURL == "" {
		return errors.New("config: API_BASE_URL must not be empty")
	}
	return nil
}

// Load reads an optional dotenv file and then the environment using
// go-envconfig. Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = "dev-only-session-secret"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
