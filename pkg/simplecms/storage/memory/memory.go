package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/presigned"
)

type object struct {
	data      []byte
	mimeType  string
	updatedAt time.Time
}

// Backend is an in-memory implementation of the simplecms.BlobStore interface
type Backend struct {
	mu      sync.RWMutex
	objects map[string]object
	signer  *presigned.Signer
}

// Option configures the in-memory backend
type Option func(*Backend)

// WithSigner enables signed URLs served by the application's blob route
func WithSigner(signer *presigned.Signer) Option {
	return func(b *Backend) {
		b.signer = signer
	}
}

// New creates a new in-memory storage backend
func New(opts ...Option) *Backend {
	b := &Backend{objects: make(map[string]object)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Upload stores a copy of the reader's bytes under objectKey
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader, mimeType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[objectKey] = object{data: data, mimeType: mimeType, updatedAt: time.Now().UTC()}
	return nil
}

// Download returns the stored bytes
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[objectKey]
	if !exists {
		return nil, fmt.Errorf("%w: %s", simplecms.ErrBlobNotFound, objectKey)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Delete removes the object
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return fmt.Errorf("%w: %s", simplecms.ErrBlobNotFound, objectKey)
	}
	delete(b.objects, objectKey)
	return nil
}

// GetSignedURL returns a signed URL for the application's blob route
func (b *Backend) GetSignedURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error) {
	if b.signer == nil || !b.signer.IsEnabled() {
		return "", simplecms.ErrURLSigningUnsupported
	}
	return b.signer.SignKey(objectKey, ttl)
}

// GetObjectMeta retrieves metadata for an object in memory
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*simplecms.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[objectKey]
	if !exists {
		return nil, fmt.Errorf("%w: %s", simplecms.ErrBlobNotFound, objectKey)
	}
	return &simplecms.ObjectMeta{
		Key:         objectKey,
		Size:        int64(len(obj.data)),
		ContentType: obj.mimeType,
		UpdatedAt:   obj.updatedAt,
	}, nil
}

// Keys returns the stored object keys.
func (b *Backend) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	return keys
}
