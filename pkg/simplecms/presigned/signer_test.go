package presigned_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-cms/pkg/simplecms/presigned"
)

func newSigner(now *time.Time) *presigned.Signer {
	return presigned.New(
		presigned.WithSecretKey("0123456789abcdef0123456789abcdef"),
		presigned.WithURLPattern("/api/v1/blobs/{key}"),
		presigned.WithBaseURL("http://localhost:3000/"),
		presigned.WithClock(func() time.Time { return *now }),
	)
}

func TestSignKeyRoundTrip(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	signer := newSigner(&now)

	signed, err := signer.SignKey("sections/My Image.png", 12*time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed, "http://localhost:3000/api/v1/blobs/sections/My%20Image.png?signature="))
	assert.Contains(t, signed, "expires=1700043200")

	req := httptest.NewRequest(http.MethodGet, signed, nil)
	require.NoError(t, signer.ValidateRequest(req))

	key, err := signer.ExtractObjectKey(req.URL.EscapedPath())
	require.NoError(t, err)
	assert.Equal(t, "sections/My Image.png", key)
}

func TestValidateRequest(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	signer := newSigner(&now)

	signed, err := signer.SignKey("cover.png", time.Minute)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := now.Add(2 * time.Minute)
		expired := newSigner(&later)
		err := expired.ValidateRequest(httptest.NewRequest(http.MethodGet, signed, nil))
		assert.ErrorIs(t, err, presigned.ErrExpired)
	})

	t.Run("tampered key", func(t *testing.T) {
		tampered := strings.Replace(signed, "cover.png", "other.png", 1)
		err := signer.ValidateRequest(httptest.NewRequest(http.MethodGet, tampered, nil))
		assert.ErrorIs(t, err, presigned.ErrInvalidSignature)
	})

	t.Run("wrong method", func(t *testing.T) {
		err := signer.ValidateRequest(httptest.NewRequest(http.MethodDelete, signed, nil))
		assert.ErrorIs(t, err, presigned.ErrInvalidSignature)
	})

	t.Run("missing signature", func(t *testing.T) {
		err := signer.ValidateRequest(httptest.NewRequest(http.MethodGet, "/api/v1/blobs/cover.png?expires=1", nil))
		assert.ErrorIs(t, err, presigned.ErrMissingSignature)
	})

	t.Run("bad expires", func(t *testing.T) {
		err := signer.ValidateRequest(httptest.NewRequest(http.MethodGet, "/api/v1/blobs/cover.png?signature=x&expires=soon", nil))
		assert.ErrorIs(t, err, presigned.ErrInvalidExpiration)
	})

	t.Run("no secret", func(t *testing.T) {
		err := presigned.New().ValidateRequest(httptest.NewRequest(http.MethodGet, signed, nil))
		assert.ErrorIs(t, err, presigned.ErrNoSecretKey)
	})
}

func TestSignURLWithoutSecret(t *testing.T) {
	_, err := presigned.New().SignURL(http.MethodGet, "/blobs/a", time.Hour)
	assert.ErrorIs(t, err, presigned.ErrNoSecretKey)
	assert.False(t, presigned.New().IsEnabled())
}

func TestMiddleware(t *testing.T) {
	now := time.Now()
	signer := newSigner(&now)

	var seen string
	handler := presigned.Middleware(signer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = presigned.ObjectKeyFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	signed, err := signer.SignKey("a/b.png", time.Hour)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, signed, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a/b.png", seen)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/blobs/a/b.png", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
