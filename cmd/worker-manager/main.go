// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gifting-workers/internal/common/camunda"
	"gifting-workers/internal/common/config"
	"gifting-workers/internal/common/database"
	"gifting-workers/internal/common/events"
	commonhttp "gifting-workers/internal/common/http"
	"gifting-workers/internal/common/logger"
	"gifting-workers/internal/common/observability"
	"gifting-workers/internal/gifting/assistant"
	"gifting-workers/internal/gifting/contextparser"
	"gifting-workers/internal/gifting/conversation"
	"gifting-workers/internal/gifting/search"

	mcs "gifting-workers/internal/workers/gift-search/multi-category-search"
	pfu "gifting-workers/internal/workers/gift-search/parse-follow-up"
	pgc "gifting-workers/internal/workers/gift-search/parse-gift-context"
	sc "gifting-workers/internal/workers/gift-search/suggest-categories"
	ti "gifting-workers/internal/workers/gift-search/track-interaction"
)

// retryWithBackoff attempts to execute a function with exponential backoff
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

// readinessCheck is a named dependency probe served on /ready.
type readinessCheck struct {
	name  string
	check func(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("searchBackend", cfg.Search.Backend),
		zap.String("conversationStore", cfg.Conversation.Store),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("observability init failed, continuing without otel metrics", zap.Error(err))
		obs = nil
	}

	ctx := context.Background()
	var checks []readinessCheck

	// --- Init Zeebe Client (retries the topology check internally) ---
	zeebe, err := camunda.NewClientWithConfig(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	checks = append(checks, readinessCheck{name: "zeebe", check: zeebe.HealthCheck})
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	if cfg.Search.Backend == config.BackendPostgres || cfg.Conversation.InteractionLog {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		checks = append(checks, readinessCheck{name: "postgres", check: pg.Ping})
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	if cfg.Conversation.Store == config.StoreRedis || cfg.Search.CacheEnabled {
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		checks = append(checks, readinessCheck{name: "redis", check: rdb.Ping})
		zapLog.Info("Redis connected successfully")
	}

	// --- Product lookup backend ---
	var lookup search.ProductLookup
	switch cfg.Search.Backend {
	case config.BackendElasticsearch:
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}

		created, err := esClient.EnsureIndex(ctx, cfg.Search.ProductIndex, search.ProductIndexMapping)
		if err != nil {
			zapLog.Fatal("product index setup failed", zap.Error(err))
		}
		if created {
			zapLog.Info("product index created", zap.String("index", cfg.Search.ProductIndex))
		}
		checks = append(checks, readinessCheck{name: "elasticsearch", check: esClient.Ping})
		lookup = search.NewElasticsearchLookup(esClient.Client, cfg.Search.ProductIndex)
		zapLog.Info("Elasticsearch connected successfully")

	case config.BackendPostgres:
		lookup = search.NewPostgresLookup(pg.DB)

	case config.BackendHTTP:
		httpClient := commonhttp.NewClient(config.GetDuration(cfg.APIs.ProductCatalog.Timeout))
		if cfg.APIs.ProductCatalog.APIKey != "" {
			httpClient = httpClient.WithHeader("X-API-Key", cfg.APIs.ProductCatalog.APIKey)
		}
		lookup = search.NewHTTPLookup(httpClient, cfg.APIs.ProductCatalog.BaseURL)
	}

	if cfg.Search.CacheEnabled {
		lookup = search.NewCachedLookup(lookup, rdb.Client, config.GetDuration(cfg.Search.CacheTTL), log)
		zapLog.Info("product lookup cache enabled", zap.Int("ttl_ms", cfg.Search.CacheTTL))
	}

	// --- Conversation persistence ---
	var store conversation.Store
	switch cfg.Conversation.Store {
	case config.StoreRedis:
		store = conversation.NewRedisStore(rdb.Client, config.GetDuration(cfg.Conversation.StateTTL))
	default:
		store = conversation.NewMemoryStore()
	}

	var interactionLog conversation.InteractionLog = conversation.NoopInteractionLog{}
	if cfg.Conversation.InteractionLog {
		pgLog := conversation.NewPostgresInteractionLog(pg.DB)
		if err := pgLog.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("interaction log schema setup failed", zap.Error(err))
		}
		interactionLog = pgLog
	}

	publisher, err := events.New(cfg.Kafka, log)
	if err != nil {
		zapLog.Fatal("event publisher init failed", zap.Error(err))
	}
	defer publisher.Close()

	// --- Domain services ---
	parser := contextparser.New(log)
	executorOpts := []search.ExecutorOption{
		search.WithQueryTimeout(config.GetDuration(cfg.Search.QueryTimeout)),
	}
	if obs != nil {
		executorOpts = append(executorOpts, search.WithRecorder(obs))
	}
	executor := search.NewExecutor(lookup, log, executorOpts...)

	svc := assistant.NewService(
		assistant.Config{PerCategoryLimit: cfg.Search.PerCategoryLimit},
		assistant.Dependencies{
			Parser:         parser,
			Executor:       executor,
			Store:          store,
			InteractionLog: interactionLog,
			Publisher:      publisher,
			Logger:         log,
		},
	)

	// --- Register workers ---
	workers := camunda.NewWorkerSet(zeebe.GetClient(), log)

	if wcfg := config.GetWorkerConfig(cfg, pgc.TaskType); wcfg.Enabled {
		handler := pgc.NewHandler(
			&pgc.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			parser, store, obs, log,
		)
		workers.Start(pgc.TaskType, wcfg, handler)
	}

	if wcfg := config.GetWorkerConfig(cfg, mcs.TaskType); wcfg.Enabled {
		handler := mcs.NewHandler(
			&mcs.Config{
				Timeout:          config.GetDuration(wcfg.Timeout),
				PerCategoryLimit: cfg.Search.PerCategoryLimit,
			},
			executor, svc, obs, log,
		)
		workers.Start(mcs.TaskType, wcfg, handler)
	}

	if wcfg := config.GetWorkerConfig(cfg, ti.TaskType); wcfg.Enabled {
		handler := ti.NewHandler(&ti.Config{Timeout: config.GetDuration(wcfg.Timeout)}, svc, obs, log)
		workers.Start(ti.TaskType, wcfg, handler)
	}

	if wcfg := config.GetWorkerConfig(cfg, pfu.TaskType); wcfg.Enabled {
		handler := pfu.NewHandler(&pfu.Config{Timeout: config.GetDuration(wcfg.Timeout)}, svc, obs, log)
		workers.Start(pfu.TaskType, wcfg, handler)
	}

	if wcfg := config.GetWorkerConfig(cfg, sc.TaskType); wcfg.Enabled {
		handler := sc.NewHandler(&sc.Config{Timeout: config.GetDuration(wcfg.Timeout)}, obs, log)
		workers.Start(sc.TaskType, wcfg, handler)
	}

	zapLog.Info("workers registered", zap.Strings("taskTypes", workers.TaskTypes()))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		probeCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		failures := map[string]string{}
		for _, c := range checks {
			if err := c.check(probeCtx); err != nil {
				failures[c.name] = err.Error()
			}
		}
		if len(failures) > 0 {
			writeStatus(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":   "not_ready",
				"failures": failures,
				"time":     time.Now().Format(time.RFC3339),
			})
			return
		}
		body := map[string]interface{}{
			"status":  "ready",
			"workers": workers.TaskTypes(),
			"time":    time.Now().Format(time.RFC3339),
		}
		if pg != nil {
			body["postgresPool"] = pg.Stats()
		}
		writeStatus(w, http.StatusOK, body)
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Stop(shutdownCtx)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down metrics provider", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
