package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"proximity-analysis-service/internal/adapters/cache"
	"proximity-analysis-service/internal/adapters/repositories"
	"proximity-analysis-service/internal/adapters/routing"
	"proximity-analysis-service/internal/api"
	"proximity-analysis-service/internal/config"
	"proximity-analysis-service/internal/logger"
	"proximity-analysis-service/internal/platform/db"
	"proximity-analysis-service/internal/ports"
	"proximity-analysis-service/internal/services"
)

// main is the application composition root. It wires the Postgres
// repositories, the distance resolver chain (Redis cache, routing API,
// geometric fallback) and the ranking engine behind the HTTP router.
func main() {
	// The logger needs ENVIRONMENT before the full config is parsed, so the
	// .env file is loaded up front; config.Load re-reading it is a no-op.
	_ = godotenv.Load()

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	log, err := logger.New(environment)
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	cfg := config.Load(log)

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close()

	var distanceCache ports.DistanceCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn("redis unreachable, distance cache disabled",
				zap.String("addr", cfg.RedisAddr),
				zap.Error(err),
			)
		} else {
			distanceCache = cache.NewRedisDistanceCache(rdb, 0)
			defer rdb.Close()
		}
	}

	var matrix *routing.MatrixClient
	if cfg.RoutingAPIKey != "" {
		matrix, err = routing.NewMatrixClient(cfg.RoutingAPIKey, cfg.RoutingBaseURL, cfg.RoutingTimeout)
		if err != nil {
			log.Fatal("routing client setup failed", zap.Error(err))
		}
	} else {
		log.Warn("ROUTING_API_KEY not set, distances use geometric fallback only")
	}

	resolver := routing.NewResolver(matrix, distanceCache, log)

	clientRepo := repositories.NewPostgresClientRepository(database)
	providerRepo := repositories.NewPostgresProviderRepository(database)
	rankingRepo := repositories.NewPostgresRankingRepository(database)

	engine := services.NewEngine(
		clientRepo,
		providerRepo,
		rankingRepo,
		resolver,
		cfg.TopK,
		cfg.RankWorkers,
		log,
	)

	router := api.NewRouter(api.RouterDeps{
		Clients:        clientRepo,
		Providers:      providerRepo,
		Rankings:       rankingRepo,
		Engine:         engine,
		Log:            log,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Batch ranking runs wait on external routing calls.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}
