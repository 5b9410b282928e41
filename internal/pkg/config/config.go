package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Host     string `env:"HBNB_API_HOST, default=0.0.0.0"`
	Port     string `env:"HBNB_API_PORT, default=5000"`
	WebPort  string `env:"HBNB_WEB_PORT, default=5001"`
	Env      string `env:"HBNB_ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL,     default=info"`

	JWTSecret    string `env:"JWT_SECRET"`
	AuthRequired bool   `env:"HBNB_AUTH_REQUIRED, default=false"`

	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type StorageConfig struct {
	Type       string `env:"HBNB_TYPE_STORAGE, default=file"`
	FilePath   string `env:"HBNB_FILE_PATH,    default=file.json"`
	SQLitePath string `env:"HBNB_SQLITE_PATH,  default=hbnb.db"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=hbnb"`
}

// RedisConfig is optional: an empty Addr disables idempotency keys.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

var validStorage = map[string]bool{"file": true, "sqlite": true, "db": true, "mongo": true}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks combinations envconfig cannot express.
func (c *Config) Validate() error {
	if !validStorage[c.Storage.Type] {
		return fmt.Errorf("config: unknown HBNB_TYPE_STORAGE %q", c.Storage.Type)
	}
	if c.AuthRequired && c.JWTSecret == "" {
		return errors.New("config: HBNB_AUTH_REQUIRED needs JWT_SECRET")
	}
	return nil
}

// LoadWith reads configuration through lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
