package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "sojourn/internal/http"
	"sojourn/internal/platform/config"
	"sojourn/internal/platform/httpserver"
	"sojourn/internal/platform/kafka"
	"sojourn/internal/platform/logger"
	"sojourn/internal/platform/metrics"
	"sojourn/internal/platform/postgres"
	"sojourn/internal/platform/redis"
	"sojourn/internal/platform/sqlite"
	staycache "sojourn/internal/stay/cache"
	stayevents "sojourn/internal/stay/events"
	stayhandler "sojourn/internal/stay/handler"
	staymetrics "sojourn/internal/stay/metrics"
	staypolicy "sojourn/internal/stay/policy"
	stayservice "sojourn/internal/stay/service"
	staystore "sojourn/internal/stay/store"
	"sojourn/pkg/platform/circuit"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("sojourn stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := loadPolicies(cfg)
	if err != nil {
		return err
	}
	log.Info("policy catalog loaded", "policies", registry.Len())

	reg := metrics.NewRegistry()
	httpMetrics := metrics.New(reg)
	stayMetrics := staymetrics.New(reg)

	checks := map[string]httpapi.HealthCheck{}
	opts := []stayservice.Option{
		stayservice.WithLogger(log),
		stayservice.WithMetrics(stayMetrics),
	}

	var records stayservice.RecordStore
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, postgres.Config{
			URL:             cfg.Store.DatabaseURL,
			MaxOpenConns:    cfg.Store.MaxOpenConns,
			MaxIdleConns:    cfg.Store.MaxIdleConns,
			ConnMaxLifetime: cfg.Store.ConnMaxLifetime,
		})
		if err != nil {
			return err
		}
		defer db.Close()
		store := staystore.NewPostgres(db)
		if err := store.Migrate(); err != nil {
			return err
		}
		records = store
		opts = append(opts, stayservice.WithTx(newStaySQLTx(store)))
		checks["database"] = db.PingContext
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		store := staystore.NewSQLite(db)
		if err := store.Migrate(); err != nil {
			return err
		}
		records = store
		opts = append(opts, stayservice.WithTx(newStaySQLTx(store)))
		checks["database"] = db.PingContext
	default:
		records = staystore.NewInMemoryStore()
	}
	log.Info("stay store ready", "driver", cfg.Store.Driver)

	redisClient, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	switch {
	case redisClient != nil:
		defer redisClient.Close()
		c, err := staycache.NewRedis(redisClient.Client, redisClient.TTL(),
			staycache.WithKeyPrefix(redisClient.Key("status")+":"))
		if err != nil {
			return err
		}
		opts = append(opts, stayservice.WithCache(c))
		checks["redis"] = redisClient.Health
		log.Info("status cache ready", "backend", "redis", "prefix", redisClient.Key("status"))
	case cfg.Cache.Capacity > 0:
		c, err := staycache.NewOtter(cfg.Cache.Capacity, cfg.Cache.TTL)
		if err != nil {
			return err
		}
		defer c.Close()
		opts = append(opts, stayservice.WithCache(c))
		log.Info("status cache ready", "backend", "memory", "capacity", cfg.Cache.Capacity)
	}

	kafkaClient, err := kafka.New(ctx, cfg.Kafka)
	if err != nil {
		return err
	}
	if kafkaClient != nil {
		defer kafkaClient.Close()
		if err := stayevents.EnsureTopic(ctx, kafkaClient.Admin, cfg.Kafka.Topic, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
			return err
		}
		publisher := stayevents.NewBreakerPublisher(
			stayevents.NewKafkaPublisher(kafkaClient.Client, cfg.Kafka.Topic),
			circuit.New("kafka", circuit.WithFailureThreshold(5), circuit.WithCooldown(30*time.Second)),
			log,
		)
		opts = append(opts, stayservice.WithPublisher(publisher))
		checks["kafka"] = kafkaClient.Health
		log.Info("evaluation events enabled", "topic", cfg.Kafka.Topic)
	}

	svc := stayservice.New(records, registry, opts...)
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:  log,
		Metrics: httpMetrics,
		Checks:  checks,
		API:     []httpapi.Registrar{stayhandler.New(svc, log)},
	})

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting sojourn", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func loadPolicies(cfg config.Server) (*staypolicy.Registry, error) {
	if cfg.PolicyCatalogPath != "" {
		return staypolicy.LoadFile(cfg.PolicyCatalogPath)
	}
	return staypolicy.Default()
}
