// Package api exposes the blog backend over HTTP. Every JSON response uses
// the Response envelope.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
	"github.com/tendant/simple-cms/pkg/simplecms/presigned"
	"github.com/tendant/simple-cms/pkg/simplecms/validation"
)

// BasePath is where Routes is mounted. Signed blob URLs are built for paths
// below it.
const BasePath = "/api/v1"

// Config holds the dependencies of the HTTP layer
type Config struct {
	Service   simplecms.Service
	Validator *validation.Validator
	Tokens    *auth.JWT

	// BlobStore and Signer serve signed blob URLs. The blob route is
	// registered only when the signer has a secret.
	BlobStore simplecms.BlobStore
	Signer    *presigned.Signer

	// ConflictStatus answers duplicate names; 401 when zero
	ConflictStatus int

	// AdminMiddleware guards the admin routes, which are registered only
	// when it is set
	AdminMiddleware func(http.Handler) http.Handler

	Logger *slog.Logger
}

// API serves the user, article and section endpoints
type API struct {
	service        simplecms.Service
	validator      *validation.Validator
	tokens         *auth.JWT
	blobStore      simplecms.BlobStore
	signer         *presigned.Signer
	conflictStatus int
	admin          func(http.Handler) http.Handler
	logger         *slog.Logger
}

// New creates the HTTP layer
func New(cfg Config) (*API, error) {
	if cfg.Service == nil {
		return nil, errors.New("service is required")
	}
	if cfg.Tokens == nil {
		return nil, errors.New("token verifier is required")
	}
	a := &API{
		service:        cfg.Service,
		validator:      cfg.Validator,
		tokens:         cfg.Tokens,
		blobStore:      cfg.BlobStore,
		signer:         cfg.Signer,
		conflictStatus: cfg.ConflictStatus,
		admin:          cfg.AdminMiddleware,
		logger:         cfg.Logger,
	}
	if a.validator == nil {
		a.validator = validation.New()
	}
	if a.conflictStatus == 0 {
		a.conflictStatus = http.StatusUnauthorized
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a, nil
}

// Routes returns the router to mount at BasePath
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/user", func(r chi.Router) {
		r.Post("/register", a.Register)
		r.Post("/login", a.Login)
		r.Group(func(r chi.Router) {
			r.Use(a.authenticated()...)
			r.Get("/", a.GetProfile)
			r.Patch("/", a.UpdateProfile)
		})
	})

	r.Route("/article", func(r chi.Router) {
		r.Use(a.authenticated()...)
		r.Get("/", a.ListArticles)
		r.Post("/", a.CreateArticle)
		r.Patch("/data", a.UpdateArticleData)
		r.Patch("/publishment", a.UpdatePublishState)
		r.Delete("/", a.DeleteArticle)
	})

	r.Route("/section", func(r chi.Router) {
		r.Use(a.authenticated()...)
		r.Get("/", a.ListSections)
		r.Post("/", a.CreateSection)
		r.Put("/", a.UpdateSection)
		r.Delete("/", a.DeleteSection)
	})

	if a.blobStore != nil && a.signer != nil && a.signer.IsEnabled() {
		r.With(presigned.Middleware(a.signer)).Get("/blobs/*", a.DownloadBlob)
	}

	if a.admin != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(a.admin)
			r.Post("/intents/sweep", a.SweepIntents)
		})
	}

	return r
}

func (a *API) authenticated() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		a.tokens.Verifier(),
		auth.Authenticator(a.unauthorized),
	}
}

// userID returns the id the authenticator stored in the request context
func userID(r *http.Request) int64 {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}
