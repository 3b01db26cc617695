package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	API     APIConfig
	Log     LogConfig
	Store   StoreConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	Console ConsoleConfig

	// Profile scopes the CLI session so several accounts can be kept side by side.
	Profile string `env:"CLI_PROFILE, default=default"`
}

type APIConfig struct {
	BaseURL   string        `env:"API_BASE_URL,   default=http://127.0.0.1:8000/api/users"`
	Timeout   time.Duration `env:"HTTP_TIMEOUT"`
	RateLimit float64       `env:"API_RATE_LIMIT, default=0"`
	RateBurst int           `env:"API_RATE_BURST, default=1"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL,  default=info"`
	Pretty bool   `env:"LOG_PRETTY, default=false"`
}

type StoreConfig struct {
	Backend    string        `env:"STORE_BACKEND,     default=file"`
	FileDir    string        `env:"STORE_FILE_DIR"`
	FileSecret string        `env:"STORE_FILE_SECRET"`
	SessionTTL time.Duration `env:"STORE_SESSION_TTL, default=0"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ams_client"`
}

type ConsoleConfig struct {
	Addr         string `env:"CONSOLE_ADDR,          default=:8080"`
	CookieSecure bool   `env:"CONSOLE_COOKIE_SECURE, default=false"`
}

// LoadFrom reads configuration from l using go-envconfig. Entry points pass
// envconfig.OsLookuper(); tests inject a map.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("config: API_RATE_LIMIT must not be negative")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("config: HTTP_TIMEOUT must not be negative")
	}
	return nil
}
