package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hackgods/clinic-booking/internal/api"
	"github.com/hackgods/clinic-booking/internal/appointment"
	"github.com/hackgods/clinic-booking/internal/booking"
	"github.com/hackgods/clinic-booking/internal/catalog"
	"github.com/hackgods/clinic-booking/internal/config"
	"github.com/hackgods/clinic-booking/internal/countdown"
	"github.com/hackgods/clinic-booking/internal/db"
	"github.com/hackgods/clinic-booking/internal/logging"
	"github.com/hackgods/clinic-booking/internal/metrics"
	"github.com/hackgods/clinic-booking/internal/notify"
	redisclient "github.com/hackgods/clinic-booking/internal/redis"
	"github.com/hackgods/clinic-booking/internal/seed"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("api-server starting up",
		zap.String("http_port", cfg.HTTPPort),
		zap.Duration("lock_ttl", cfg.LockTTL),
		zap.Duration("timer_interval", cfg.TimerInterval),
		zap.Int("horizon_days", cfg.HorizonDays),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sinks := notify.Multi{notify.NewLogSink(logger)}

	var pgPool *pgxpool.Pool
	if cfg.PostgresDSN != "" {
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pgPool, err = db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		if err == nil {
			err = db.EnsureSchema(pgCtx, pgPool)
		}
		cancelPg()
		if err != nil {
			logger.Fatal("postgres connection error", zap.Error(err))
		}
		defer pgPool.Close()
		sinks = append(sinks, notify.NewEventSink(pgPool, logger))
		logger.Info("connected to Postgres, event log enabled")
	}

	var (
		rdb    *redis.Client
		locker redisclient.Locker
	)
	if cfg.RedisEnabled {
		rdb, err = redisclient.NewRedisClient(rootCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			logger.Fatal("redis connection error", zap.Error(err))
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Warn("error closing redis", zap.Error(err))
			}
		}()
		locker = redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
		logger.Info("connected to Redis, slot locks are distributed", zap.String("addr", cfg.RedisAddr))
	} else {
		locker = redisclient.NewLocalSlotLocker()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	clock := appointment.SystemClock
	store := appointment.NewMemoryStore(clock)

	watcher := countdown.NewWatcher(store, clock, cfg.TimerInterval, sinks, logger)
	defer watcher.Stop()

	svc := appointment.NewService(store, locker, appointment.ServiceOptions{
		Notifier: notify.Multi{sinks, watcher},
		Metrics:  metrics.NewBookingMetrics(reg),
		Clock:    clock,
		Logger:   logger,
	})
	sessions := booking.NewRegistry(svc, sinks, clock, logger)
	cat := catalog.Default()

	if cfg.SeedDemo {
		_, err := seed.Populate(rootCtx, svc, cat, seed.Options{
			Now:         clock.Now(),
			FakeCount:   cfg.SeedFakeCount,
			RandomSeed:  cfg.SeedRandom,
			HorizonDays: cfg.HorizonDays,
		}, logger)
		if err != nil {
			logger.Fatal("seed error", zap.Error(err))
		}
	}

	router := api.NewRouter(api.RouterConfig{
		Service:     svc,
		Sessions:    sessions,
		Catalog:     cat,
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Postgres:    api.PostgresPinger(pgPool),
		Redis:       api.RedisPinger(rdb),
		Logger:      logger,
		Env:         cfg.Env,
		Version:     version,
		HorizonDays: cfg.HorizonDays,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go pruneSessions(rootCtx, sessions, cfg.SessionIdle, logger)

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-rootCtx.Done()
	logger.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// pruneSessions drops abandoned booking drafts on a ticker until ctx ends.
func pruneSessions(ctx context.Context, sessions *booking.Registry, idle time.Duration, logger *zap.Logger) {
	if idle <= 0 {
		return
	}

	interval := idle / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			removed := sessions.PruneIdle(start.Add(-idle))
			if removed > 0 {
				logger.Info("pruned idle booking sessions",
					zap.Int("removed", removed),
					zap.Int("open", sessions.Len()),
					zap.Duration("took", time.Since(start)),
				)
			}
		}
	}
}
