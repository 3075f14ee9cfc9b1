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

// Credential store backends.
const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the shell configuration.
type Config struct {
	Port     string `env:"PORT,      default=5173"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	LogFile  string `env:"LOG_FILE"`

	API        APIConfig
	Credential CredentialConfig
	Redis      RedisConfig

	TickInterval time.Duration `env:"TICK_INTERVAL, default=1500ms"`
}

type APIConfig struct {
	BaseURL     string        `env:"API_BASE_URL, default=http://localhost:8080/api"`
	Timeout     time.Duration `env:"API_TIMEOUT,  default=10s"`
	PortfolioID int64         `env:"PORTFOLIO_ID, default=1"`
}

type CredentialConfig struct {
	Backend string `env:"CREDENTIAL_BACKEND, default=badger"`
	Path    string `env:"CREDENTIAL_PATH,    default=.tradeshift/credential"`
	Key     string `env:"CREDENTIAL_KEY,     default=tradeshift:token"`
	// EncryptionKey enables Badger encryption at rest. 16, 24 or 32 bytes.
	EncryptionKey string `env:"CREDENTIAL_ENCRYPTION_KEY"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// MockConfig is the configuration of the mock trading API.
type MockConfig struct {
	Port      string        `env:"MOCK_PORT,  default=8080"`
	Env       string        `env:"ENV,        default=development"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	JWTSecret string        `env:"JWT_SECRET, default=tradeshift-dev-secret"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=10h"`
	LogFile   string        `env:"LOG_FILE"`

	// Mongo is used when MONGO_URI is set; otherwise state lives in memory.
	Mongo MongoConfig
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI"`
	Database string        `env:"MONGO_DATABASE, default=tradeshift"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT,  default=10s"`
}

// Development reports whether the process runs in development mode.
func (c *Config) Development() bool {
	return strings.EqualFold(c.Env, "development")
}

func (c *MockConfig) Development() bool {
	return strings.EqualFold(c.Env, "development")
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Credential.Backend {
	case BackendBadger:
		if c.Credential.Path == "" {
			return errors.New("CREDENTIAL_PATH is required for the badger backend")
		}
		if n := len(c.Credential.EncryptionKey); n != 0 && n != 16 && n != 24 && n != 32 {
			return fmt.Errorf("CREDENTIAL_ENCRYPTION_KEY must be 16, 24 or 32 bytes, got %d", n)
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown CREDENTIAL_BACKEND %q", c.Credential.Backend)
	}
	if c.TickInterval <= 0 {
		return errors.New("TICK_INTERVAL must be positive")
	}
	if c.API.PortfolioID <= 0 {
		return errors.New("PORTFOLIO_ID must be positive")
	}
	return nil
}

// LoadDotEnv loads a .env file into the process environment when one exists.
// Variables already set are not overridden.
func LoadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads the shell configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the shell configuration from l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadMock reads the mock API configuration from l.
func LoadMock(ctx context.Context, l envconfig.Lookuper) (*MockConfig, error) {
	var cfg MockConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
