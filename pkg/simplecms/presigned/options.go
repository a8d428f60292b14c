package presigned

import (
	"strings"
	"time"
)

// Option is a functional option for configuring a Signer
type Option func(*Signer)

// WithSecretKey sets the secret key used for HMAC signing
func WithSecretKey(key string) Option {
	return func(s *Signer) {
		s.secretKey = []byte(key)
	}
}

// WithDefaultExpiration sets the lifetime of URLs signed with a zero duration
func WithDefaultExpiration(duration time.Duration) Option {
	return func(s *Signer) {
		s.defaultExpiration = duration
	}
}

// WithURLPattern sets the path serving blobs; it must contain {key}.
// Example: "/api/v1/blobs/{key}"
func WithURLPattern(pattern string) Option {
	return func(s *Signer) {
		s.urlPattern = pattern
	}
}

// WithBaseURL sets the scheme and host prepended by SignKey,
// e.g. "https://blog.example.com"
func WithBaseURL(baseURL string) Option {
	return func(s *Signer) {
		s.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		s.now = now
	}
}
