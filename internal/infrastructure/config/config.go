package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,        default=8080"`
	Env       string        `env:"ENV,         default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,   default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,   default=info"`

	Mongo  MongoConfig
	Redis  RedisConfig
	OpenAI OpenAIConfig
	S3     S3Config
	Authz  AuthzConfig
	Audit  AuditConfig
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,  default=adventure"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=0"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type OpenAIConfig struct {
	APIKey     string `env:"OPENAI_API_KEY"`
	TextModel  string `env:"OPENAI_TEXT_MODEL"`
	ImageModel string `env:"OPENAI_IMAGE_MODEL"`
}

type S3Config struct {
	Bucket string `env:"S3_BUCKET"`
	Region string `env:"AWS_REGION, default=us-east-1"`
}

// AuthzConfig holds the two deliberately configurable policy choices.
// MaskForbidden renders cross-owner denials as 404 at the HTTP edge;
// PublicClone lets non-owners clone public adventures.
type AuthzConfig struct {
	MaskForbidden bool `env:"AUTHZ_MASK_FORBIDDEN, default=true"`
	PublicClone   bool `env:"AUTHZ_PUBLIC_CLONE,   default=false"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
