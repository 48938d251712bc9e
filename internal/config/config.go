package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Provider
	FaceProvider string `envconfig:"FACE_PROVIDER" default:"deepface"`
	DeepFaceURL  string `envconfig:"DEEPFACE_URL" default:"http://localhost:5000"`
	AWSRegion    string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Matching
	SimilarityThreshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"0.5"`

	// Retry policy for transient failures
	MaxRetries   int           `envconfig:"MAX_RETRIES" default:"3"`
	RetryDelay   time.Duration `envconfig:"RETRY_DELAY" default:"1s"`
	RetryBackoff float64       `envconfig:"RETRY_BACKOFF" default:"2.0"`

	// Resource limits
	MaxImageSizeMB float64 `envconfig:"MAX_IMAGE_SIZE_MB" default:"10"`
	MinMemoryMB    float64 `envconfig:"MIN_MEMORY_MB" default:"500"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
