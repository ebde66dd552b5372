package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Image backends.
const (
	ImageBackendLocal      = "local"
	ImageBackendCloudinary = "cloudinary"
)

type Config struct {
	Port     string `env:"PORT,      default=5000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth   AuthConfig
	HTTP   HTTPConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Images ImageConfig

	MovementWorkers int `env:"MOVEMENT_WORKERS, default=4"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=720h"`
}

type HTTPConfig struct {
	CORSOrigins    []string `env:"CORS_ORIGINS,     default=*"`
	MaxUploadBytes int64    `env:"MAX_UPLOAD_BYTES, default=5242880"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=restaurant_inventory"`
}

type RedisConfig struct {
	Enabled   bool          `env:"REDIS_ENABLED,   default=true"`
	Addr      string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password  string        `env:"REDIS_PASSWORD"`
	DB        int           `env:"REDIS_DB,        default=0"`
	PoolSize  int           `env:"REDIS_POOL_SIZE, default=10"`
	Timeout   time.Duration `env:"REDIS_TIMEOUT,   default=2s"`
	ReplayTTL time.Duration `env:"REPLAY_TTL,      default=24h"`
}

type ImageConfig struct {
	Backend       string `env:"IMAGE_BACKEND,   default=local"`
	UploadDir     string `env:"UPLOAD_DIR,      default=uploads"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL, default=http://localhost:5000"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `env:"CLOUDINARY_FOLDER, default=restaurant_inventory"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from an arbitrary lookuper (tests use a map).
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}

	switch c.Images.Backend {
	case ImageBackendLocal:
		if c.Images.UploadDir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR is required for the local image backend"))
		}
	case ImageBackendCloudinary:
		if c.Images.CloudinaryCloudName == "" || c.Images.CloudinaryAPIKey == "" || c.Images.CloudinaryAPISecret == "" {
			errs = append(errs, errors.New("cloudinary image backend requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown IMAGE_BACKEND %q", c.Images.Backend))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IsProduction reports whether ENV selects production behaviour (JSON logs).
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
