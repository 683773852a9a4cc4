// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Env      string `envconfig:"ENV" default:"local"`
	LogLevel string `envconfig:"LOG_LEVEL"`
	Addr     string `envconfig:"HTTP_ADDR" default:":8080"`

	Driver           string        `envconfig:"CATALOG_STORE_DRIVER" default:"mongo"`
	MongoURI         string        `envconfig:"MONGO_URI" default:"mongodb://mongo:27017"`
	MongoDatabase    string        `envconfig:"MONGO_DB" default:"catalog"`
	Timeout          time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`
	StoreCollection  string        `envconfig:"STORE_COLLECTION" default:"stores"`
	ReviewCollection string        `envconfig:"REVIEW_COLLECTION" default:"reviews"`
	UserCollection   string        `envconfig:"USER_COLLECTION" default:"users"`

	AllowedOrigins []string `envconfig:"API_ALLOWED_ORIGINS" default:"*"`

	JWTSecret   string `envconfig:"AUTH_JWT_SECRET"`
	JWTIssuer   string `envconfig:"AUTH_JWT_ISSUER" default:"storecatalog-auth"`
	JWTAudience string `envconfig:"AUTH_JWT_AUDIENCE"`

	RedisAddrs    []string      `envconfig:"REDIS_ADDRS"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	ViewCacheTTL  time.Duration `envconfig:"VIEW_CACHE_TTL" default:"5m"`

	MediaDir string `envconfig:"MEDIA_DIR" default:"uploads"`
}

// Load preloads envFile (when it exists) and reads the environment.
// Variables already set in the process win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", envFile, err)
			}
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	cfg.AllowedOrigins = trimList(cfg.AllowedOrigins)
	cfg.RedisAddrs = trimList(cfg.RedisAddrs)
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be configured"))
	}
	switch c.Driver {
	case DriverMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			errs = append(errs, errors.New("MONGO_URI must be configured for the mongo driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown CATALOG_STORE_DRIVER %q", c.Driver))
	}
	if len(c.RedisAddrs) > 0 && c.ViewCacheTTL <= 0 {
		errs = append(errs, errors.New("VIEW_CACHE_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// JWTConfigs returns the token verification settings.
func (c Config) JWTConfigs() []JWTConfig {
	secret := strings.TrimSpace(c.JWTSecret)
	if secret == "" {
		return nil
	}
	return []JWTConfig{{Issuer: strings.TrimSpace(c.JWTIssuer), Secret: []byte(secret)}}
}

// CacheEnabled reports whether aggregate views are cached in Redis.
func (c Config) CacheEnabled() bool {
	return len(c.RedisAddrs) > 0
}

func trimList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
