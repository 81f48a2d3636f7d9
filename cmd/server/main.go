package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/analytics/store"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/loader"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/router"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/rpcapi"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/internal/searcher/service"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/ratelimit"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/rpc"
	"github.com/Adithya-Monish-Kumar-K/Ukrainian-Dictionary-Lookup/pkg/tracing"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging)
	slog.Info("starting dictionary service", "port", cfg.Server.Port, "data_dir", cfg.Data.Dir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dict, err := loader.Load(ctx, cfg.Data)
	if err != nil {
		slog.Error("failed to load dictionary", "error", err)
		os.Exit(1)
	}
	report := loader.Validate(dict)
	for kind, n := range report.Counts() {
		slog.Warn("dictionary consistency issues", "kind", kind, "count", n)
	}

	m := metrics.New()
	m.DictionaryEntries.Set(float64(dict.Store.Len()))
	m.DictionaryTerms.Set(float64(dict.Terms.Len()))
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics, nil)
		metricsServer.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			metricsServer.Shutdown(shutdownCtx)
		}()
	}

	exec := executor.New(dict, cfg.Search, m, tracing.NewTracer(cfg.Tracing))

	checker := health.NewChecker()
	checker.Register("dictionary", health.CountCheck("entries", dict.Store.Len))

	var lookupCache *cache.LookupCache
	if cfg.Redis.Enabled {
		redisClient, err := pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, lookup caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			lookupCache = cache.New(redisClient, cfg.Redis, m)
			checker.RegisterOptional("redis", health.PingCheck(redisClient))
			slog.Info("lookup cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	aggregator := analytics.NewAggregator()
	var publisher analytics.Publisher = analytics.LocalPublisher{Aggregator: aggregator}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		publisher = producer

		consumer := kafka.NewConsumer(cfg.Kafka, aggregator.HandleMessage())
		go func() {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("analytics consumer stopped", "error", err)
			}
		}()
		slog.Info("analytics events routed through kafka", "topic", producer.Topic())
	}
	collector := analytics.NewCollector(publisher, analytics.CollectorConfig{}, m)
	collector.Start(ctx)
	defer collector.Close()

	var snapshots analytics.SnapshotLister
	if cfg.Postgres.Enabled {
		db, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			slog.Warn("postgres unavailable, analytics snapshots disabled", "error", err)
		} else {
			defer db.Close()
			snapshotStore := store.New(db, cfg.Postgres.SnapshotRetention)
			if err := snapshotStore.EnsureSchema(ctx); err != nil {
				slog.Error("failed to create analytics schema", "error", err)
				os.Exit(1)
			}
			snapshots = snapshotStore
			checker.RegisterOptional("postgres", health.PingCheck(db))
			go store.RunPeriodicSave(ctx, snapshotStore, aggregator, cfg.Postgres.SnapshotInterval)
		}
	}

	svc := service.New(exec, lookupCache, collector, cfg.Search)

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New(ctx, time.Minute)
	}

	server := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router.New(router.Deps{
			Lookup:            handler.New(svc),
			Analytics:         analytics.NewHandler(aggregator, snapshots),
			Health:            checker,
			Metrics:           m,
			Limiter:           limiter,
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			StaticDir:         cfg.Data.StaticDir,
			Timeout:           cfg.Server.WriteTimeout,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	var rpcServer *rpc.Server
	if cfg.RPC.Enabled {
		rpcServer = rpc.NewServer(cfg.Server.WriteTimeout)
		rpcapi.Register(rpcServer, svc)
		go func() {
			if err := rpcServer.ListenAndServe(cfg.RPC.Addr); err != nil {
				slog.Error("rpc server error", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if rpcServer != nil {
			rpcServer.Stop()
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("dictionary service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("dictionary service stopped")
}
