package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendant/chi-demo/app"
	demomiddleware "github.com/tendant/chi-demo/middleware"

	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/api"
	"github.com/tendant/simple-cms/pkg/simplecms/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "err", err)
	}

	serverConfig, err := config.Load(config.WithEnv())
	if err != nil {
		slog.Error("Failed to load server configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := serverConfig.Build(ctx)
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}
	defer components.Close()

	server, err := NewHTTPServer(components, serverConfig)
	if err != nil {
		slog.Error("Failed to create HTTP server", "err", err)
		os.Exit(1)
	}

	sweeper := simplecms.NewSweeper(components.Service, serverConfig.IntentSweepInterval, slog.Default())
	go sweeper.Run(ctx)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", serverConfig.Port),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Simple CMS server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"database", serverConfig.DatabaseType,
			"storage", serverConfig.StorageType)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
	}

	slog.Info("Server exiting")
}

// HTTPServer wraps the blog API with health, metrics and admin routes
type HTTPServer struct {
	api    *api.API
	config *config.ServerConfig
	comps  *config.Components
}

// NewHTTPServer creates a new HTTP server wrapper
func NewHTTPServer(components *config.Components, serverConfig *config.ServerConfig) (*HTTPServer, error) {
	var admin func(http.Handler) http.Handler
	if serverConfig.AdminAPIKeySHA256 != "" {
		mw, err := demomiddleware.ApiKeyMiddleware(demomiddleware.ApiKeyConfig{
			APIKeys: map[string]string{
				"admin": serverConfig.AdminAPIKeySHA256,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize API key middleware: %w", err)
		}
		admin = mw
	}

	handlers, err := api.New(api.Config{
		Service:         components.Service,
		Validator:       components.Validator,
		Tokens:          components.Tokens,
		BlobStore:       components.BlobStore,
		Signer:          components.Signer,
		ConflictStatus:  serverConfig.ConflictStatus,
		AdminMiddleware: admin,
	})
	if err != nil {
		return nil, err
	}

	return &HTTPServer{api: handlers, config: serverConfig, comps: components}, nil
}

// Routes sets up the HTTP routes
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS for development
	if s.config.Environment == "development" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	app.RoutesHealthz(r)
	app.RoutesHealthzReady(r)

	if s.comps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.comps.Registry, promhttp.HandlerOpts{}))
	}

	r.Mount(api.BasePath, s.api.Routes())

	return r
}
