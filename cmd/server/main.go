package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oggyb/swipe-core/internal/app"
	"github.com/oggyb/swipe-core/internal/backup"
	"github.com/oggyb/swipe-core/internal/cache"
	"github.com/oggyb/swipe-core/internal/compatibility"
	"github.com/oggyb/swipe-core/internal/config"
	"github.com/oggyb/swipe-core/internal/db"
	"github.com/oggyb/swipe-core/internal/logger"
	"github.com/oggyb/swipe-core/internal/matching"
	"github.com/oggyb/swipe-core/internal/metrics"
	"github.com/oggyb/swipe-core/internal/notify"
	"github.com/oggyb/swipe-core/internal/server"
	"github.com/oggyb/swipe-core/internal/service/matchmaking"
	"github.com/oggyb/swipe-core/internal/worker"
)

func main() {
	if err := run(); err != nil {
		logger.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		return err
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		return err
	}
	defer redisCache.Close()

	appCtx := app.New(cfg, database, redisCache, log)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database, appCtx.Now()); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	collector := metrics.New(prometheus.DefaultRegisterer)
	core := matching.NewService(appCtx, compatibility.NewDefault(log), matching.WithObserver(collector))
	activity := cache.NewActivityTracker(redisCache, cfg.Notify.Cooldown)

	// Notifications go to Kafka when brokers are configured, else to the log.
	var sender notify.Sender = notify.NewLogSender(log)
	if len(cfg.Notify.KafkaBrokers) > 0 {
		ks := notify.NewKafkaSender(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic)
		defer ks.Close()
		sender = ks
	}
	pool, err := notify.NewPool(cfg.Notify.Workers, log)
	if err != nil {
		return err
	}
	defer pool.Release()

	jobs := []worker.Job{
		worker.Maintenance(core, cfg.Scheduler.MaintenanceInterval, log),
		worker.Relay(notify.NewRelay(appCtx, sender, notify.WithRelayReporter(collector)), cfg.Scheduler.NotifyInterval),
		worker.Engagement(notify.NewEngagementNotifier(appCtx, activity, sender, pool,
			notify.WithEngagementReporter(collector)), cfg.Scheduler.NotifyInterval),
	}
	if cfg.Backup.Enabled {
		sink, err := backupSink(ctx, cfg)
		if err != nil {
			return err
		}
		jobs = append(jobs, worker.Backup(backup.NewManager(appCtx, sink,
			backup.WithMinInterval(cfg.Backup.MinInterval),
			backup.WithKeep(cfg.Backup.Keep),
			backup.WithReporter(collector),
		), cfg.Scheduler.BackupInterval))
	}
	schedulerDone := make(chan struct{})
	go func() {
		worker.NewScheduler(log, jobs...).Run(ctx)
		close(schedulerDone)
	}()

	limiter := cache.NewRateLimiter(redisCache,
		cache.Window{Name: "minute", Limit: cfg.RateLimit.PerMinute, Length: time.Minute},
		cache.Window{Name: "hour", Limit: cfg.RateLimit.PerHour, Length: time.Hour},
	)
	srv := server.New(cfg, log, server.Options{Limiter: limiter, Now: appCtx.Now},
		matchmaking.NewRegistrar(appCtx, core, activity),
	)

	err = server.StartGRPCServer(ctx, srv)
	stop()
	<-schedulerDone
	return err
}

func backupSink(ctx context.Context, cfg *config.Config) (backup.Sink, error) {
	if cfg.Backup.MinioEndpoint == "" {
		return backup.NewDirSink(cfg.Backup.Dir)
	}
	return backup.NewMinioSink(ctx, backup.MinioOptions{
		Endpoint:  cfg.Backup.MinioEndpoint,
		AccessKey: cfg.Backup.MinioAccessKey,
		SecretKey: cfg.Backup.MinioSecretKey,
		Bucket:    cfg.Backup.MinioBucket,
		UseSSL:    cfg.Backup.MinioUseSSL,
	})
}
