package presigned

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Signer generates and validates HMAC-signed read URLs for blobs served by
// this application.
type Signer struct {
	secretKey         []byte
	defaultExpiration time.Duration
	urlPattern        string // e.g. "/api/v1/blobs/{key}"
	baseURL           string
	now               func() time.Time
}

// New creates a new Signer with the given options
func New(opts ...Option) *Signer {
	s := &Signer{
		defaultExpiration: 12 * time.Hour,
		urlPattern:        "/blobs/{key}",
		now:               time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SignURL returns path with signature and expires query parameters valid
// for method until expiresIn from now.
//
//	url, err := signer.SignURL("GET", "/blobs/cover.png", time.Hour)
//	// /blobs/cover.png?signature=ab12...&expires=1696789012
func (s *Signer) SignURL(method, path string, expiresIn time.Duration) (string, error) {
	if len(s.secretKey) == 0 {
		return "", ErrNoSecretKey
	}

	if expiresIn <= 0 {
		expiresIn = s.defaultExpiration
	}
	expiresAt := s.now().Add(expiresIn).Unix()
	signature := s.generateSignature(createPayload(method, path, expiresAt))

	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	return fmt.Sprintf("%s%ssignature=%s&expires=%d", path, separator, signature, expiresAt), nil
}

// SignKey returns an absolute signed GET URL for objectKey built from the
// URL pattern and base URL.
func (s *Signer) SignKey(objectKey string, expiresIn time.Duration) (string, error) {
	signed, err := s.SignURL(http.MethodGet, s.PathFor(objectKey), expiresIn)
	if err != nil {
		return "", err
	}
	return s.baseURL + signed, nil
}

// PathFor returns the request path serving objectKey.
func (s *Signer) PathFor(objectKey string) string {
	segments := strings.Split(objectKey, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Replace(s.urlPattern, "{key}", strings.Join(segments, "/"), 1)
}

// ValidateRequest validates the signature and expiration of an HTTP request
func (s *Signer) ValidateRequest(r *http.Request) error {
	if len(s.secretKey) == 0 {
		return ErrNoSecretKey
	}

	query := r.URL.Query()
	signature := query.Get("signature")
	expiresStr := query.Get("expires")

	if signature == "" {
		return ErrMissingSignature
	}
	if expiresStr == "" {
		return ErrMissingExpiration
	}

	expiresAt, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidExpiration, err)
	}

	path := r.URL.EscapedPath()
	cleanQuery := url.Values{}
	for k, v := range query {
		if k != "signature" && k != "expires" {
			cleanQuery[k] = v
		}
	}
	if len(cleanQuery) > 0 {
		path = path + "?" + cleanQuery.Encode()
	}

	return s.Validate(r.Method, path, signature, expiresAt)
}

// Validate checks a signature and expiration for the given method and path
func (s *Signer) Validate(method, path, signature string, expiresAt int64) error {
	if s.now().Unix() > expiresAt {
		return ErrExpired
	}

	expected := s.generateSignature(createPayload(method, path, expiresAt))
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}

// ExtractObjectKey extracts the object key from a URL path using the
// configured URL pattern.
func (s *Signer) ExtractObjectKey(path string) (string, error) {
	idx := strings.Index(s.urlPattern, "{key}")
	if idx == -1 {
		return "", fmt.Errorf("URL pattern does not contain {key} placeholder")
	}
	prefix := s.urlPattern[:idx]
	suffix := s.urlPattern[idx+len("{key}"):]

	if !strings.HasPrefix(path, prefix) {
		return "", fmt.Errorf("path does not match URL pattern prefix")
	}
	key := strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix)
	if key == "" {
		return "", fmt.Errorf("empty object key")
	}
	return url.PathUnescape(key)
}

// IsEnabled returns true if a secret key is configured
func (s *Signer) IsEnabled() bool {
	return len(s.secretKey) > 0
}

// createPayload builds the signed string: METHOD|PATH|EXPIRES
func createPayload(method, path string, expiresAt int64) string {
	return fmt.Sprintf("%s|%s|%d", method, path, expiresAt)
}

func (s *Signer) generateSignature(payload string) string {
	h := hmac.New(sha256.New, s.secretKey)
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}
