// Package auth issues and verifies the HS256 access tokens handed out by
// register and login.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth"

	"github.com/tendant/simple-cms/pkg/simplecms"
)

const (
	// ClaimUserID is the claim carrying the user id
	ClaimUserID = "id"

	// CookieName is the cookie register sets and the verifier reads
	CookieName = "token"

	// DefaultExpire is the token lifetime when none is configured
	DefaultExpire = 24 * time.Hour
)

// ErrMissingUserID indicates a verified token without a usable id claim
var ErrMissingUserID = errors.New("token has no user id")

type contextKey struct{ name string }

var userIDKey = &contextKey{"UserID"}

// JWT signs and verifies tokens with a shared secret. A JWT built from an
// empty secret refuses to issue and fails every verification with
// simplecms.ErrSigningSecretMissing.
type JWT struct {
	ja     *jwtauth.JWTAuth
	expire time.Duration
	now    func() time.Time
}

// Option configures a JWT
type Option func(*JWT)

// WithClock overrides the time source used for iat and exp
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

// New creates a token issuer. A non-positive expire uses DefaultExpire.
func New(secret string, expire time.Duration, opts ...Option) *JWT {
	j := &JWT{expire: expire, now: time.Now}
	if j.expire <= 0 {
		j.expire = DefaultExpire
	}
	if secret != "" {
		j.ja = jwtauth.New("HS256", []byte(secret), nil)
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Enabled reports whether a signing secret is configured
func (j *JWT) Enabled() bool {
	return j != nil && j.ja != nil
}

// Issue implements simplecms.TokenIssuer
func (j *JWT) Issue(userID int64) (string, error) {
	if !j.Enabled() {
		return "", simplecms.ErrSigningSecretMissing
	}
	now := j.now()
	claims := map[string]interface{}{ClaimUserID: userID}
	jwtauth.SetIssuedAt(claims, now)
	jwtauth.SetExpiry(claims, now.Add(j.expire))

	_, token, err := j.ja.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Parse verifies a token string and returns its user id
func (j *JWT) Parse(tokenString string) (int64, error) {
	if !j.Enabled() {
		return 0, simplecms.ErrSigningSecretMissing
	}
	token, err := jwtauth.VerifyToken(j.ja, tokenString)
	if err != nil {
		return 0, err
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		return 0, err
	}
	return userIDFromClaims(claims)
}

// Verifier finds a token in the Authorization header or the token cookie
// and stores the verification result in the request context.
func (j *JWT) Verifier() func(http.Handler) http.Handler {
	if !j.Enabled() {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := jwtauth.NewContext(r.Context(), nil, simplecms.ErrSigningSecretMissing)
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		}
	}
	return jwtauth.Verify(j.ja, jwtauth.TokenFromHeader, TokenFromCookie)
}

// Authenticator rejects requests without a valid token through fail, and
// puts the token's user id in the context of the others.
func Authenticator(fail func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				fail(w, r, err)
				return
			}
			if token == nil {
				fail(w, r, jwtauth.ErrUnauthorized)
				return
			}
			userID, err := userIDFromClaims(claims)
			if err != nil {
				fail(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// TokenFromCookie reads the token cookie
func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// WithUserID returns a context carrying the authenticated user id
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func userIDFromClaims(claims map[string]interface{}) (int64, error) {
	var id int64
	switch v := claims[ClaimUserID].(type) {
	case float64:
		id = int64(v)
	case int64:
		id = v
	case int:
		id = int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, ErrMissingUserID
		}
		id = n
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, ErrMissingUserID
		}
		id = n
	default:
		return 0, ErrMissingUserID
	}
	if id <= 0 {
		return 0, ErrMissingUserID
	}
	return id, nil
}
