package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config is loaded once at startup and treated as read-only afterwards.
type Config struct {
	Port       string `env:"PORT,        default=8080"`
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	AppTitle   string `env:"APP_TITLE,   default=User Administration API"`
	AppVersion string `env:"APP_VERSION, default=1.0.0"`

	// StoreDriver selects the record store: "mongo" or "memory".
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Token     TokenConfig
	Bootstrap BootstrapConfig
	Provision ProvisionConfig
	Mongo     MongoConfig
	Redis     RedisConfig

	BcryptCost int `env:"BCRYPT_COST, default=10"`
}

type TokenConfig struct {
	SecretKey     string `env:"SECRET_KEY, required"`
	Algorithm     string `env:"ALGORITHM, required"`
	ExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES, required"`
}

// TTL is the lifetime of every issued token.
func (t TokenConfig) TTL() time.Duration {
	return time.Duration(t.ExpireMinutes) * time.Minute
}

// BootstrapConfig describes the operator seeded at startup when absent.
type BootstrapConfig struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
	Name     string `env:"ADMIN_NAME, default=Admin"`
	Role     string `env:"ADMIN_ROLE, default=admin"`
}

type ProvisionConfig struct {
	Enabled bool `env:"AUTO_PROVISION, default=true"`
	// Password is the legacy fixed password for auto-provisioned operators.
	// Empty means a random one per record.
	Password string `env:"AUTO_PROVISION_PASSWORD"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_admin"`
}

type RedisConfig struct {
	// Addr empty disables the identity cache.
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,           default=0"`
	CacheTTL time.Duration `env:"IDENTITY_CACHE_TTL, default=30s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects values that would only fail later at request time.
func (c *Config) Validate() error {
	var errs []error
	if _, ok := jwt.GetSigningMethod(c.Token.Algorithm).(*jwt.SigningMethodHMAC); !ok {
		errs = append(errs, fmt.Errorf("ALGORITHM %q is not an HMAC algorithm", c.Token.Algorithm))
	}
	if c.Token.ExpireMinutes <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.Bootstrap.Email != "" && c.Bootstrap.Password == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD is required when ADMIN_EMAIL is set"))
	}
	if c.StoreDriver != StoreMongo && c.StoreDriver != StoreMemory {
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of mongo, memory", c.StoreDriver))
	}
	return errors.Join(errs...)
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
