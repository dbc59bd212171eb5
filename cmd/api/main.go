// cmd/api/main.go
// Wires configuration, storage, the matching engine and the HTTP server.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wanderlink/wanderlink-backend/internal/auth"
	"github.com/wanderlink/wanderlink-backend/internal/common/database"
	"github.com/wanderlink/wanderlink-backend/internal/common/utils"
	"github.com/wanderlink/wanderlink-backend/internal/config"
	"github.com/wanderlink/wanderlink-backend/internal/matching"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	logger := buildLogger(cfg)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		// the service degrades gracefully without a cache
		logger.Warn("redis unavailable, running without cache", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	repo := matching.NewPostgresRepository(db)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	seed, err := repo.LoadRatings(seedCtx)
	cancelSeed()
	if err != nil {
		logger.Warn("could not load persisted quality ratings", zap.Error(err))
	}
	ratings := matching.NewRatingStore(seed, repo, logger)

	engine := matching.NewEngine(
		matching.WithRatingStore(ratings),
		matching.WithLogger(logger),
	)

	service := matching.NewService(engine, repo, ratings, redisClient, logger, matching.ServiceOptions{
		CandidateFetchCap: cfg.CandidateFetchCap,
	})

	handler := matching.NewHandler(service, matching.HandlerOptions{
		DefaultLimit: cfg.DiscoverLimit,
		MinAge:       cfg.MinAge,
		MaxAge:       cfg.MaxAge,
	})

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)
	matching.RegisterRoutes(router, handler, authMiddleware)

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	if cfg.SchedulerEnabled {
		matching.NewScheduler(service, logger).Start(schedulerCtx)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

func buildLogger(cfg *config.Config) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
