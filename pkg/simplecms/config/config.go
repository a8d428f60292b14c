package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/exp/slices"

	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
	"github.com/tendant/simple-cms/pkg/simplecms/metrics"
	"github.com/tendant/simple-cms/pkg/simplecms/objectkey"
	"github.com/tendant/simple-cms/pkg/simplecms/presigned"
	"github.com/tendant/simple-cms/pkg/simplecms/repo/gormdb"
	"github.com/tendant/simple-cms/pkg/simplecms/repo/memory"
	repopg "github.com/tendant/simple-cms/pkg/simplecms/repo/postgres"
	fsstorage "github.com/tendant/simple-cms/pkg/simplecms/storage/fs"
	memorystorage "github.com/tendant/simple-cms/pkg/simplecms/storage/memory"
	s3storage "github.com/tendant/simple-cms/pkg/simplecms/storage/s3"
	"github.com/tendant/simple-cms/pkg/simplecms/validation"
)

// BlobRoutePattern is the path that serves signed local blob URLs
const BlobRoutePattern = "/api/v1/blobs/{key}"

var (
	databaseTypes = []string{"memory", "postgres", "mysql", "sqlite"}
	storageTypes  = []string{"memory", "fs", "s3"}
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:                "8080",
		Environment:         "development",
		DatabaseType:        "memory",
		AutoMigrate:         true,
		StorageType:         "memory",
		FSBaseDir:           "./data/storage",
		S3:                  S3Config{Region: "us-east-1"},
		JWTExpire:           auth.DefaultExpire,
		BcryptCost:          10,
		SignImageURLs:       true,
		SignedURLTTL:        simplecms.DefaultSignedURLTTL,
		MaxUploadBytes:      validation.DefaultMaxUploadBytes,
		ConflictStatus:      http.StatusUnauthorized,
		KeyGenerator:        "git-like",
		IntentSweepInterval: 5 * time.Minute,
		IntentGracePeriod:   simplecms.DefaultIntentGracePeriod,
		EnableEventLogging:  true,
		EnableMetrics:       true,
	}
}

// ServerConfig represents server configuration for the blog backend
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseType string // "memory", "postgres", "mysql", "sqlite"
	DatabaseURL  string
	DBSchema     string // Postgres search_path
	AutoMigrate  bool

	// Storage configuration
	StorageType string // "memory", "fs", "s3"
	FSBaseDir   string
	S3          S3Config

	// Authentication
	SecretKey  string
	JWTExpire  time.Duration
	BcryptCost int

	// Image URLs
	SignImageURLs   bool
	SignedURLTTL    time.Duration
	SignedURLSecret string // HMAC secret for memory/fs blob URLs
	PublicBaseURL   string // prefix of signed local blob URLs
	MaxUploadBytes  int64
	KeyGenerator    string // "git-like" or "flat"

	// HTTP behaviour
	ConflictStatus    int // status for duplicate names: 401 or 409
	AdminAPIKeySHA256 string

	// Blob intents
	IntentSweepInterval time.Duration
	IntentGracePeriod   time.Duration

	// Server options
	EnableEventLogging bool
	EnableMetrics      bool
}

// S3Config holds the S3 storage settings
type S3Config struct {
	Bucket                 string
	Region                 string
	Endpoint               string
	AccessKeyID            string
	SecretAccessKey        string
	UsePathStyle           bool
	CreateBucketIfNotExist bool
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if !slices.Contains(databaseTypes, c.DatabaseType) {
		return fmt.Errorf("database_type must be one of %v, got %q", databaseTypes, c.DatabaseType)
	}
	if c.DatabaseType != "memory" && c.DatabaseURL == "" {
		return fmt.Errorf("database_url is required when using %s", c.DatabaseType)
	}

	if !slices.Contains(storageTypes, c.StorageType) {
		return fmt.Errorf("storage_type must be one of %v, got %q", storageTypes, c.StorageType)
	}
	if c.StorageType == "fs" && c.FSBaseDir == "" {
		return errors.New("fs_base_dir is required when using fs storage")
	}
	if c.StorageType == "s3" && c.S3.Bucket == "" {
		return errors.New("s3 bucket is required when using s3 storage")
	}

	if c.ConflictStatus != http.StatusUnauthorized && c.ConflictStatus != http.StatusConflict {
		return fmt.Errorf("conflict_status must be 401 or 409, got %d", c.ConflictStatus)
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max_upload_bytes must be positive")
	}
	if c.SignedURLTTL <= 0 {
		return errors.New("signed_url_ttl must be positive")
	}
	if c.IntentGracePeriod < 0 {
		return errors.New("intent_grace_period cannot be negative")
	}
	if _, err := objectkey.New(c.KeyGenerator); err != nil {
		return err
	}

	return nil
}

// Components is everything the HTTP server needs, built from a ServerConfig
type Components struct {
	Service   simplecms.Service
	BlobStore simplecms.BlobStore
	Tokens    *auth.JWT
	Signer    *presigned.Signer
	Validator *validation.Validator
	Registry  *prometheus.Registry

	closers []func()
}

// Close releases database connections
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(ctx context.Context) (simplecms.Service, error) {
	components, err := c.Build(ctx)
	if err != nil {
		return nil, err
	}
	return components.Service, nil
}

// Build wires the repository, blob store, token issuer and event sinks
func (c *ServerConfig) Build(ctx context.Context) (*Components, error) {
	components := &Components{
		Tokens:    auth.New(c.SecretKey, c.JWTExpire),
		Validator: validation.New(validation.WithMaxUploadBytes(c.MaxUploadBytes)),
		Signer: presigned.New(
			presigned.WithSecretKey(c.SignedURLSecret),
			presigned.WithDefaultExpiration(c.SignedURLTTL),
			presigned.WithURLPattern(BlobRoutePattern),
			presigned.WithBaseURL(c.PublicBaseURL),
		),
	}

	repo, err := c.buildRepository(ctx, components)
	if err != nil {
		components.Close()
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.buildBlobStore(ctx, components.Signer)
	if err != nil {
		components.Close()
		return nil, fmt.Errorf("failed to build blob store: %w", err)
	}
	components.BlobStore = store

	keyGen, _ := objectkey.New(c.KeyGenerator)
	options := []simplecms.Option{
		simplecms.WithRepository(repo),
		simplecms.WithBlobStore(store),
		simplecms.WithTokenIssuer(components.Tokens),
		simplecms.WithKeyGenerator(keyGen),
		simplecms.WithBcryptCost(c.BcryptCost),
		simplecms.WithIntentGracePeriod(c.IntentGracePeriod),
	}
	switch {
	case !c.SignImageURLs:
	case c.StorageType != "s3" && !components.Signer.IsEnabled():
		slog.Warn("image url signing disabled: SIGNED_URL_SECRET is not set", "storage_type", c.StorageType)
	default:
		options = append(options, simplecms.WithSignedURLs(c.SignedURLTTL))
	}

	var sinks simplecms.MultiEventSink
	if c.EnableEventLogging {
		sinks = append(sinks, simplecms.NewLoggingEventSink(slog.Default()))
	}
	if c.EnableMetrics {
		components.Registry = prometheus.NewRegistry()
		components.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		sink, err := metrics.NewEventSink(components.Registry)
		if err != nil {
			components.Close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if len(sinks) > 0 {
		options = append(options, simplecms.WithEventSink(sinks))
	}

	svc, err := simplecms.New(options...)
	if err != nil {
		components.Close()
		return nil, err
	}
	components.Service = svc
	return components, nil
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository(ctx context.Context, components *Components) (simplecms.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nil
	case "postgres":
		cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		schema := c.DBSchema
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			if schema == "" {
				return nil
			}
			_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", pgx.Identifier{schema}.Sanitize()))
			return err
		}
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		components.closers = append(components.closers, pool.Close)
		if c.AutoMigrate {
			if err := repopg.Migrate(ctx, pool); err != nil {
				return nil, err
			}
		}
		return repopg.NewWithPool(pool), nil
	case "mysql", "sqlite":
		db, err := gormdb.Open(c.DatabaseType, c.DatabaseURL)
		if err != nil {
			return nil, err
		}
		components.closers = append(components.closers, func() {
			if err := gormdb.Close(db); err != nil {
				slog.Warn("failed to close database", "error", err)
			}
		})
		if c.AutoMigrate {
			if err := gormdb.AutoMigrate(db); err != nil {
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		return gormdb.New(db), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildBlobStore creates a BlobStore based on the configuration
func (c *ServerConfig) buildBlobStore(ctx context.Context, signer *presigned.Signer) (simplecms.BlobStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(memorystorage.WithSigner(signer)), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: c.FSBaseDir, Signer: signer})
	case "s3":
		return s3storage.New(ctx, s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			CreateBucketIfNotExist: c.S3.CreateBucketIfNotExist,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}
