// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"

	"salespipe-service/internal/cache"
	"salespipe-service/internal/config"
	"salespipe-service/internal/db"
	activityhandler "salespipe-service/internal/handlers/activity"
	customerhandler "salespipe-service/internal/handlers/customer"
	"salespipe-service/internal/importer"
	"salespipe-service/internal/repository/postgres"
	activityservice "salespipe-service/internal/service/activity"
	customerservice "salespipe-service/internal/service/customer"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	logger *zap.Logger

	pool  *pgxpool.Pool
	redis *redis.Client

	httpServer *http.Server

	customerHandler *customerhandler.CustomerHandler
	activityHandler *activityhandler.ActivityHandler
}

// NewServer wires the full dependency graph: config, Postgres, Redis,
// repositories, services, importer, handlers.
func NewServer(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, err
	}

	customerRepo := postgres.NewCustomerRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)

	metricsCache := cache.NewMetricsCache(redisClient, cfg.MetricsCacheTTL)

	customerService := customerservice.NewCustomerService(customerRepo, activityRepo, metricsCache, logger)
	activityService := activityservice.NewActivityService(activityRepo, customerRepo, logger)

	csvImporter := importer.New(customerService, logger)

	s := &Server{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		redis:           redisClient,
		customerHandler: customerhandler.NewCustomerHandler(customerService, csvImporter),
		activityHandler: activityhandler.NewActivityHandler(activityService),
	}

	s.httpServer = &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.setupRouter(),
	}

	return s, nil
}

func (s *Server) Run() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests then releases the connection pools.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	s.pool.Close()
	if cerr := s.redis.Close(); cerr != nil && err == nil {
		err = cerr
	}

	return err
}
