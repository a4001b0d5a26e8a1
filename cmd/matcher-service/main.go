// cmd/matcher-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aidmatch-backend/internal/common/config"
	"aidmatch-backend/internal/common/database"
	"aidmatch-backend/internal/common/logger"
	"aidmatch-backend/internal/common/observability"
	"aidmatch-backend/internal/matching"
	"aidmatch-backend/internal/server"
	"aidmatch-backend/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting matcher service",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected")

	pgStore := store.NewPostgresStore(pg.DB)
	deps := map[string]server.Pinger{"postgres": pg}

	// --- Result cache: redis-backed when available, in-memory otherwise ---
	var cache matching.ResultCache
	if cfg.Database.Redis.Enabled {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("redis unavailable, using in-memory result cache", zap.Error(err))
		} else {
			defer rdb.Close()
			deps["redis"] = rdb
			cache = matching.NewRedisResultCache(rdb.Client, cfg.Matching.CacheTTL)
			zapLog.Info("Redis connected")
		}
	}
	if cache == nil {
		cache = matching.NewMemoryResultCache(cfg.Matching.CacheTTL, cfg.Matching.CacheCapacity)
	}

	// --- Retrieval strategies, most selective first ---
	var strategies []matching.RetrievalStrategy
	if cfg.Database.Elasticsearch.Enabled {
		esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Warn("elasticsearch unavailable, search tier disabled", zap.Error(err))
		} else {
			searchStore := store.NewSearchStore(esClient.Client, cfg.Database.Elasticsearch.Index)
			strategies = append(strategies, store.NewSearchRetrieval(searchStore))
		}
	}
	strategies = append(strategies,
		store.NewFilteredRetrieval(pgStore),
		store.NewUnfilteredRetrieval(pgStore),
	)

	retriever := matching.NewRetriever(strategies, cfg.Matching.CandidateLimit, log)
	scorer := matching.NewScorer(cfg.Matching.MajorCategories)
	diversifier := matching.NewDiversifier(cfg.Matching.ProviderLimit)
	categorizer := matching.NewCategorizer(matching.DefaultCategories(), cfg.Matching.CategoryLimit)

	opts := []matching.MatcherOption{
		matching.WithPopularityStore(pgStore),
		matching.WithObservability(obs),
	}
	if cfg.Verification.Enabled {
		verifierClient := matching.NewDefaultVerifierClient(time.Duration(cfg.Verification.Timeout) * time.Millisecond)
		opts = append(opts, matching.WithVerifier(
			matching.NewLinkVerifier(verifierClient, cfg.Verification.BatchSize, log),
		))
	}

	matcher := matching.NewMatcher(retriever, scorer, diversifier, categorizer, cache, log, opts...)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := server.New(matcher, deps, log)
	if err != nil {
		zapLog.Fatal("server setup failed", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("stopped")
}
