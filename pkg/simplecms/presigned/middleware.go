package presigned

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

var (
	ErrNoSecretKey       = errors.New("presigned: no secret key configured")
	ErrMissingSignature  = errors.New("presigned: missing signature parameter")
	ErrMissingExpiration = errors.New("presigned: missing expires parameter")
	ErrInvalidExpiration = errors.New("presigned: invalid expires parameter")
	ErrExpired           = errors.New("presigned: URL has expired")
	ErrInvalidSignature  = errors.New("presigned: invalid signature")
)

type contextKey struct{}

// ObjectKeyFromContext returns the object key validated by Middleware, or ""
func ObjectKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(contextKey{}).(string)
	return key
}

// Middleware rejects requests whose signature or expiry does not validate
// and puts the object key from the path into the request context.
func Middleware(signer *Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := signer.ValidateRequest(r); err != nil {
				http.Error(w, http.StatusText(StatusFor(err)), StatusFor(err))
				return
			}

			objectKey, err := signer.ExtractObjectKey(r.URL.EscapedPath())
			if err != nil {
				slog.Warn("presigned: failed to extract object key", "path", r.URL.Path, "error", err)
				http.Error(w, "invalid object url", http.StatusBadRequest)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, objectKey)))
		})
	}
}

// StatusFor maps a validation error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrMissingSignature), errors.Is(err, ErrMissingExpiration):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidExpiration):
		return http.StatusBadRequest
	case errors.Is(err, ErrExpired), errors.Is(err, ErrInvalidSignature):
		return http.StatusForbidden
	case errors.Is(err, ErrNoSecretKey):
		return http.StatusNotFound
	}
	return http.StatusForbidden
}
