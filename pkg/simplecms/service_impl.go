package simplecms

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tendant/simple-cms/pkg/simplecms/objectkey"
)

const (
	// DefaultSignedURLTTL is the lifetime of image URLs returned by list operations
	DefaultSignedURLTTL = 12 * time.Hour

	// DefaultIntentGracePeriod is how old an intent must be before a sweep touches it
	DefaultIntentGracePeriod = 15 * time.Minute
)

// service implements the Service interface
type service struct {
	repository   Repository
	blobStore    BlobStore
	tokens       TokenIssuer
	eventSink    EventSink
	keyGenerator objectkey.Generator
	logger       *slog.Logger

	bcryptCost   int
	signURLs     bool
	signedURLTTL time.Duration
	intentGrace  time.Duration
	now          func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob store holding article and section images
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithTokenIssuer sets the issuer used by Register and Login
func WithTokenIssuer(issuer TokenIssuer) Option {
	return func(s *service) {
		s.tokens = issuer
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithKeyGenerator sets the generator for image keys the client did not name
func WithKeyGenerator(gen objectkey.Generator) Option {
	return func(s *service) {
		s.keyGenerator = gen
	}
}

// WithLogger sets the logger for non-fatal failures
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithBcryptCost sets the bcrypt work factor for password hashes
func WithBcryptCost(cost int) Option {
	return func(s *service) {
		s.bcryptCost = cost
	}
}

// WithSignedURLs makes list operations replace image keys with signed
// read URLs valid for ttl. A zero ttl uses DefaultSignedURLTTL.
func WithSignedURLs(ttl time.Duration) Option {
	return func(s *service) {
		s.signURLs = true
		if ttl > 0 {
			s.signedURLTTL = ttl
		}
	}
}

// WithIntentGracePeriod sets the minimum age of intents reconciled by a sweep
func WithIntentGracePeriod(d time.Duration) Option {
	return func(s *service) {
		s.intentGrace = d
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		eventSink:    NewNoopEventSink(),
		keyGenerator: objectkey.NewGitLikeGenerator(),
		logger:       slog.Default(),
		bcryptCost:   bcrypt.DefaultCost,
		signedURLTTL: DefaultSignedURLTTL,
		intentGrace:  DefaultIntentGracePeriod,
		now:          func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.bcryptCost < bcrypt.MinCost || s.bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range", s.bcryptCost)
	}

	return s, nil
}
