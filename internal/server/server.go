package server

import (
	"fmt"
	"net/http"
	"time"

	"teslo-catalog/internal/config"
	"teslo-catalog/internal/database"
	custommiddleware "teslo-catalog/internal/middleware"
	"teslo-catalog/internal/repository"
	"teslo-catalog/internal/service"
	"teslo-catalog/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, pool *pgxpool.Pool) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env != "production"))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, database.Health(pool))
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository()
	imageRepo := repository.NewImageRepository()
	userRepo := repository.NewUserRepository(pool)

	// Initialize services
	catalogService := service.NewCatalogService(pool, productRepo, imageRepo, logger)
	userService := service.NewUserService(userRepo, cfg.JWT.Secret, logger)
	seedService := service.NewSeedService(catalogService, userRepo, logger)
	fileService := service.NewFileService(cfg.Uploads.Dir)

	// Initialize handlers
	productHandler := transport.NewProductHandler(catalogService, logger)
	authHandler := transport.NewAuthHandler(userService, logger)
	seedHandler := transport.NewSeedHandler(seedService, logger)
	fileHandler := transport.NewFileHandler(fileService, logger)

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(userService, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)

	// Register routes
	productHandler.RegisterRoutes(router, authMiddleware, adminMiddleware)
	authHandler.RegisterRoutes(router, authMiddleware)
	fileHandler.RegisterRoutes(router)

	// The destructive seed route is rate limited
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	rateLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
		Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
		KeyPrefix:         "rate_limit:seed",
	}, logger)

	router.Group(func(r chi.Router) {
		r.Use(rateLimit)
		seedHandler.RegisterRoutes(r)
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.pool != nil {
		s.pool.Close()
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
