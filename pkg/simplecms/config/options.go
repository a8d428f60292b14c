package config

import (
	"fmt"
	"net/http"
	"time"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithDatabase configures the database backend
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithDatabaseSchema sets the Postgres search_path
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		c.DBSchema = schema
		return nil
	}
}

// WithFilesystemStorage stores images below baseDir
func WithFilesystemStorage(baseDir string) Option {
	return func(c *ServerConfig) error {
		if baseDir == "" {
			return fmt.Errorf("filesystem base directory cannot be empty")
		}
		c.StorageType = "fs"
		c.FSBaseDir = baseDir
		return nil
	}
}

// WithS3Storage stores images in an S3 bucket
func WithS3Storage(s3 S3Config) Option {
	return func(c *ServerConfig) error {
		if s3.Bucket == "" {
			return fmt.Errorf("s3 bucket cannot be empty")
		}
		if s3.Region == "" {
			s3.Region = "us-east-1"
		}
		c.StorageType = "s3"
		c.S3 = s3
		return nil
	}
}

// WithSecretKey sets the token signing secret and lifetime
func WithSecretKey(secret string, expire time.Duration) Option {
	return func(c *ServerConfig) error {
		c.SecretKey = secret
		if expire > 0 {
			c.JWTExpire = expire
		}
		return nil
	}
}

// WithSignedImageURLs configures the signed URLs returned for images.
// The secret signs local (memory and fs) blob URLs.
func WithSignedImageURLs(secret, publicBaseURL string, ttl time.Duration) Option {
	return func(c *ServerConfig) error {
		c.SignImageURLs = true
		c.SignedURLSecret = secret
		c.PublicBaseURL = publicBaseURL
		if ttl > 0 {
			c.SignedURLTTL = ttl
		}
		return nil
	}
}

// WithConflictStatus sets the status of duplicate name errors
func WithConflictStatus(status int) Option {
	return func(c *ServerConfig) error {
		if status != http.StatusUnauthorized && status != http.StatusConflict {
			return fmt.Errorf("conflict status must be 401 or 409, got: %d", status)
		}
		c.ConflictStatus = status
		return nil
	}
}

// WithIntentSweep sets how often intents are swept and how old they must be
func WithIntentSweep(interval, grace time.Duration) Option {
	return func(c *ServerConfig) error {
		c.IntentSweepInterval = interval
		c.IntentGracePeriod = grace
		return nil
	}
}

// WithBcryptCost sets the password hashing cost
func WithBcryptCost(cost int) Option {
	return func(c *ServerConfig) error {
		c.BcryptCost = cost
		return nil
	}
}

// WithMetrics enables or disables the Prometheus event sink
func WithMetrics(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableMetrics = enabled
		return nil
	}
}
