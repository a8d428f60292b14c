package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig mirrors the environment variables WithEnv understands. Zero
// values mean "not set" and leave the current configuration untouched.
type envConfig struct {
	Port        string `env:"PORT"`
	Environment string `env:"ENVIRONMENT"`

	DatabaseType string `env:"DATABASE_TYPE"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DBSchema     string `env:"DB_SCHEMA"`
	AutoMigrate  string `env:"AUTO_MIGRATE"`

	StorageType       string `env:"STORAGE_TYPE"`
	FSBaseDir         string `env:"FS_BASE_DIR"`
	S3Bucket          string `env:"S3_BUCKET"`
	S3Region          string `env:"S3_REGION"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle    string `env:"S3_USE_PATH_STYLE"`
	S3CreateBucket    string `env:"S3_CREATE_BUCKET"`

	SecretKey  string        `env:"SECRET_KEY"`
	JWTExpire  time.Duration `env:"JWT_EXPIRE"`
	BcryptCost int           `env:"BCRYPT_COST"`

	SignImageURLs   string        `env:"SIGN_IMAGE_URLS"`
	SignedURLTTL    time.Duration `env:"SIGNED_URL_TTL"`
	SignedURLSecret string        `env:"SIGNED_URL_SECRET"`
	PublicBaseURL   string        `env:"PUBLIC_BASE_URL"`
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES"`
	KeyGenerator    string        `env:"OBJECT_KEY_GENERATOR"`

	ConflictStatus    int    `env:"CONFLICT_STATUS"`
	AdminAPIKeySHA256 string `env:"ADMIN_API_KEY_SHA256"`

	IntentSweepInterval time.Duration `env:"INTENT_SWEEP_INTERVAL"`
	IntentGracePeriod   time.Duration `env:"INTENT_GRACE_PERIOD"`

	EnableEventLogging string `env:"ENABLE_EVENT_LOGGING"`
	EnableMetrics      string `env:"ENABLE_METRICS"`
}

// WithEnv applies environment variable overrides.
//
//	PORT, ENVIRONMENT
//	DATABASE_TYPE (memory|postgres|mysql|sqlite), DATABASE_URL, DB_SCHEMA, AUTO_MIGRATE
//	STORAGE_TYPE (memory|fs|s3), FS_BASE_DIR, S3_BUCKET, S3_REGION, S3_ENDPOINT,
//	  S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY, S3_USE_PATH_STYLE, S3_CREATE_BUCKET
//	SECRET_KEY, JWT_EXPIRE, BCRYPT_COST
//	SIGN_IMAGE_URLS, SIGNED_URL_TTL, SIGNED_URL_SECRET, PUBLIC_BASE_URL,
//	  MAX_UPLOAD_BYTES, OBJECT_KEY_GENERATOR
//	CONFLICT_STATUS, ADMIN_API_KEY_SHA256
//	INTENT_SWEEP_INTERVAL, INTENT_GRACE_PERIOD
//	ENABLE_EVENT_LOGGING, ENABLE_METRICS
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var env envConfig
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		setString(&c.Port, env.Port)
		setString(&c.Environment, env.Environment)

		setString(&c.DatabaseType, env.DatabaseType)
		setString(&c.DatabaseURL, env.DatabaseURL)
		setString(&c.DBSchema, env.DBSchema)

		setString(&c.StorageType, env.StorageType)
		setString(&c.FSBaseDir, env.FSBaseDir)
		setString(&c.S3.Bucket, env.S3Bucket)
		setString(&c.S3.Region, env.S3Region)
		setString(&c.S3.Endpoint, env.S3Endpoint)
		setString(&c.S3.AccessKeyID, env.S3AccessKeyID)
		setString(&c.S3.SecretAccessKey, env.S3SecretAccessKey)

		setString(&c.SecretKey, env.SecretKey)
		setDuration(&c.JWTExpire, env.JWTExpire)
		if env.BcryptCost > 0 {
			c.BcryptCost = env.BcryptCost
		}

		setDuration(&c.SignedURLTTL, env.SignedURLTTL)
		setString(&c.SignedURLSecret, env.SignedURLSecret)
		setString(&c.PublicBaseURL, env.PublicBaseURL)
		if env.MaxUploadBytes > 0 {
			c.MaxUploadBytes = env.MaxUploadBytes
		}
		setString(&c.KeyGenerator, env.KeyGenerator)

		if env.ConflictStatus != 0 {
			c.ConflictStatus = env.ConflictStatus
		}
		setString(&c.AdminAPIKeySHA256, env.AdminAPIKeySHA256)

		setDuration(&c.IntentSweepInterval, env.IntentSweepInterval)
		setDuration(&c.IntentGracePeriod, env.IntentGracePeriod)

		bools := []struct {
			name string
			raw  string
			dst  *bool
		}{
			{"AUTO_MIGRATE", env.AutoMigrate, &c.AutoMigrate},
			{"S3_USE_PATH_STYLE", env.S3UsePathStyle, &c.S3.UsePathStyle},
			{"S3_CREATE_BUCKET", env.S3CreateBucket, &c.S3.CreateBucketIfNotExist},
			{"SIGN_IMAGE_URLS", env.SignImageURLs, &c.SignImageURLs},
			{"ENABLE_EVENT_LOGGING", env.EnableEventLogging, &c.EnableEventLogging},
			{"ENABLE_METRICS", env.EnableMetrics, &c.EnableMetrics},
		}
		for _, b := range bools {
			if b.raw == "" {
				continue
			}
			parsed, err := strconv.ParseBool(b.raw)
			if err != nil {
				return fmt.Errorf("invalid boolean for %s: %w", b.name, err)
			}
			*b.dst = parsed
		}

		return nil
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
