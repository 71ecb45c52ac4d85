package storage

import (
	"fmt"
	"time"
)

// Config holds S3-compatible storage configuration.
type Config struct {
	Bucket    string `env:"STORAGE_BUCKET"`
	AccessKey string `env:"STORAGE_ACCESS_KEY"`
	SecretKey string `env:"STORAGE_SECRET_KEY"`
	// Endpoint is set for MinIO and other S3-compatible services.
	Endpoint string `env:"STORAGE_ENDPOINT"`
	Region   string `env:"STORAGE_REGION" envDefault:"us-east-1"`
	// PathStyle is required by MinIO.
	PathStyle bool   `env:"STORAGE_PATH_STYLE" envDefault:"false"`
	Prefix    string `env:"STORAGE_PREFIX" envDefault:"letters"`

	SignedURLExpiry time.Duration `env:"STORAGE_SIGNED_URL_EXPIRY" envDefault:"15m"`
}

// Default configuration values.
const (
	DefaultRegion          = "us-east-1"
	DefaultPrefix          = "letters"
	DefaultSignedURLExpiry = 15 * time.Minute
)

// Enabled reports whether a bucket is configured.
func (c Config) Enabled() bool { return c.Bucket != "" }

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.SignedURLExpiry <= 0 {
		c.SignedURLExpiry = DefaultSignedURLExpiry
	}
}

func (c *Config) validate() error {
	switch {
	case c.Bucket == "":
		return fmt.Errorf("%w: bucket is required", ErrInvalidConfig)
	case c.AccessKey == "":
		return fmt.Errorf("%w: access key is required", ErrInvalidConfig)
	case c.SecretKey == "":
		return fmt.Errorf("%w: secret key is required", ErrInvalidConfig)
	}
	return nil
}
