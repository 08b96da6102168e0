package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/atakandgn/company-management-system/config"
	"github.com/atakandgn/company-management-system/internal/auth"
	"github.com/atakandgn/company-management-system/internal/db"
	"github.com/atakandgn/company-management-system/internal/handlers"
	"github.com/atakandgn/company-management-system/internal/metrics"
	"github.com/atakandgn/company-management-system/internal/mq"
	"github.com/atakandgn/company-management-system/internal/services"
	"github.com/atakandgn/company-management-system/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/crypto/bcrypt"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sqlx.DB
	events     *mq.Publisher
	logger     zerolog.Logger
}

// New opens the database and event backend described by cfg and wires the
// HTTP API on top of them.
func New(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Server, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate || cfg.Database.IsEmbedded() {
		if err := db.Migrate(ctx, dbConn); err != nil {
			_ = dbConn.Close()
			return nil, err
		}
	}

	backend, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("open event backend: %w", err)
	}
	var (
		publisher *mq.Publisher
		events    services.EventPublisher
	)
	if backend != nil {
		publisher = mq.NewPublisher(backend, cfg.MQ.Channel)
		events = publisher
	}

	companyRepo := store.NewCompanyRepository(dbConn)
	productRepo := store.NewProductRepository(dbConn)
	userRepo := store.NewUserRepository(dbConn)
	referenceRepo := store.NewReferenceRepository(dbConn)

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := auth.NewPasswordHasher(bcrypt.DefaultCost)

	companyService := services.NewCompanyService(companyRepo, productRepo, events, logger)
	productService := services.NewProductService(productRepo, companyRepo, events, logger)
	userService := services.NewUserService(userRepo, hasher, tokens, logger)
	referenceService := services.NewReferenceService(referenceRepo, logger)

	authMiddleware := handlers.RequireAuth(tokens)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		hlog.NewHandler(logger),
		accessLog,
		middleware.Recoverer,
		metrics.InstrumentHandler,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Handle("/metrics", metrics.Handler())
	router.Route("/company", func(r chi.Router) {
		handlers.CompanyRouter(r, companyService, authMiddleware)
	})
	router.Route("/product", func(r chi.Router) {
		handlers.ProductRouter(r, productService, referenceService, authMiddleware)
	})
	router.Route("/user", func(r chi.Router) {
		handlers.UserRouter(r, userService, authMiddleware)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 3000
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		events:     publisher,
		logger:     logger,
	}, nil
}

// accessLog writes one log line per request through the request logger.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
})

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx is
// done, then releases the database and event backend.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.events != nil {
		if closeErr := s.events.Close(); closeErr != nil {
			s.logger.Warn().Err(closeErr).Msg("failed to close event backend")
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
