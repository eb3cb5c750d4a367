package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"product-catalog/internal/config"
	"product-catalog/internal/database"
	custommiddleware "product-catalog/internal/middleware"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"
	"product-catalog/internal/transport"
	"product-catalog/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// NewServer wires repositories, services and handlers onto one router.
// redisClient may be nil, in which case caching and rate limiting are off.
func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))
	if redisClient != nil {
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "catalog:ratelimit",
			ExemptPaths:       []string{"/health"},
		}, logger))
	}

	router.Get("/health", healthHandler(db, redisClient))

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.DB())
	if redisClient != nil {
		productRepo = repository.NewCachedProductRepository(productRepo, redisClient, cfg.Redis.CacheTTL, logger)
	}
	categoryRepo := repository.NewCategoryRepository(db.DB())

	// Initialize services
	opts := service.Options{
		BatchLimit:         cfg.Catalog.BatchLimit,
		StrictCategoryRefs: cfg.Catalog.StrictCategoryRefs,
	}
	validator := validation.New()
	productService := service.NewProductService(productRepo, categoryRepo, validator, opts, logger)
	categoryService := service.NewCategoryService(categoryRepo, productRepo, validator, opts, logger)

	// Register routes
	transport.NewProductHandler(productService, logger).RegisterRoutes(router)
	transport.NewCategoryHandler(categoryService, logger).RegisterRoutes(router)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}
}

// healthHandler reports 200 while the database answers, 503 otherwise
func healthHandler(db database.Service, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]interface{}{"status": "ok"}

		dbHealth := db.Health()
		body["database"] = dbHealth
		if dbHealth["status"] != "up" {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}

		if redisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				body["redis"] = map[string]string{"status": "down", "error": err.Error()}
			} else {
				body["redis"] = map[string]string{"status": "up"}
			}
		}

		custommiddleware.RespondWithJSON(w, status, body)
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
