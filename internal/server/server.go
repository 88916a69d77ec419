package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"milka-pos/internal/config"
	"milka-pos/internal/database"
	custommiddleware "milka-pos/internal/middleware"
	"milka-pos/internal/repository"
	"milka-pos/internal/service"
	"milka-pos/internal/storage"
	"milka-pos/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *database.Service) (*Server, error) {
	images, err := storage.NewLocalImageStore(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.IsDevelopment()))

	redisClient, rateLimit := newRateLimiter(cfg, logger)

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.DB())
	saleRepo := repository.NewSaleRepository(db.DB())
	paymentRepo := repository.NewPaymentRepository(db.DB())

	// Initialize services
	productService := service.NewProductService(productRepo, images, logger)
	saleService := service.NewSaleService(saleRepo, logger)
	reportService := service.NewReportService(saleRepo)
	paymentService := service.NewPaymentService(paymentRepo, cfg.Shop, logger)

	// Register routes
	transport.NewHealthHandler(db).RegisterRoutes(router)
	transport.NewProductHandler(productService, images, logger).RegisterRoutes(router)
	transport.NewSaleHandler(saleService, logger).RegisterRoutes(router, rateLimit)
	transport.NewReportHandler(reportService, logger).RegisterRoutes(router)
	transport.NewPaymentHandler(paymentService, logger).RegisterRoutes(router, rateLimit)

	// Stored product images
	router.Handle("/"+storage.PublicPrefix+"/*", http.StripPrefix(
		"/"+storage.PublicPrefix+"/",
		http.FileServer(http.Dir(cfg.Upload.Dir)),
	))

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server, nil
}

// newRateLimiter returns a no-op limiter unless rate limiting is enabled
func newRateLimiter(cfg *config.Config, logger *zap.Logger) (*redis.Client, func(http.Handler) http.Handler) {
	if !cfg.RateLimit.Enabled {
		return nil, func(next http.Handler) http.Handler { return next }
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, rate limiting will let requests through", zap.Error(err))
	}

	return client, custommiddleware.RateLimitMiddleware(client, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         "milka_pos_rate_limit",
	}, logger)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
