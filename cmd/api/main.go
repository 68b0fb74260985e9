package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/BruuAmorim/eva-agendmento-sub000/internal/config"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/datelock"
	dbpkg "github.com/BruuAmorim/eva-agendmento-sub000/internal/db"
	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/handlers"
	infraRepo "github.com/BruuAmorim/eva-agendmento-sub000/internal/infra/repository"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/logger"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/metrics"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/notifier"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/routes"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/telemetry"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/timezone"
	ucAppointment "github.com/BruuAmorim/eva-agendmento-sub000/internal/usecase/appointment"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").WithError(err).Fatal("failed to load configuration")
	}

	log := logger.New(cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// 🔭 TELEMETRIA
	// ======================================================
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
		SampleRatio: cfg.OTelSampleRatio,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to set up tracing")
	}

	collector := metrics.NewCollector()
	checks := map[string]handlers.Pinger{}

	// ======================================================
	// 🗄️ STORAGE
	// ======================================================
	var (
		repo  domain.Repository
		sinks []notifier.Sink
	)

	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		repo = infraRepo.NewAppointmentMemoryRepository()
	default:
		db, err := dbpkg.NewDB(cfg.DBUrl, log.WithComponent("db"))
		if err != nil {
			log.WithError(err).Fatal("failed to open database")
		}
		repo = infraRepo.NewAppointmentGormRepository(db)
		checks["postgres"] = dbpkg.NewPinger(db)

		if cfg.NotifierEventLog {
			sinks = append(sinks, notifier.NewEventLogSink(db))
		}
	}

	// ======================================================
	// 🔒 LOCK POR DATA
	// ======================================================
	var locker datelock.Locker = datelock.NewLocalLocker()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("invalid REDIS_URL")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		rl := datelock.NewRedisLocker(rdb, log.WithComponent("datelock"), "eva:datelock", cfg.LockTTL)
		locker = rl
		checks["redis"] = rl
	}

	// ======================================================
	// 📣 NOTIFIER
	// ======================================================
	if cfg.NotifierWebhookURL != "" {
		sinks = append(sinks, notifier.NewWebhookSink(cfg.NotifierWebhookURL, cfg.NotifierTimeout))
	}

	var kafkaSink *notifier.KafkaSink
	if brokers := notifier.SplitBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		kafkaSink = notifier.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		sinks = append(sinks, kafkaSink)
	}

	dispatcher := notifier.NewDispatcher(
		log.WithComponent("notifier"),
		collector,
		notifier.Options{
			QueueSize: cfg.NotifierQueueSize,
			Workers:   cfg.NotifierWorkers,
			Timeout:   cfg.NotifierTimeout,
			Now:       timezone.Clock(cfg.Timezone),
		},
		sinks...,
	)

	// ======================================================
	// 🧠 USE CASES + HTTP
	// ======================================================
	deps := ucAppointment.Deps{
		Repo:    repo,
		Locker:  locker,
		Events:  dispatcher,
		Log:     log.WithComponent("appointments"),
		Metrics: collector,
		Now:     timezone.Clock(cfg.Timezone),
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Appointments: handlers.NewAppointmentHandler(deps, ucAppointment.NewGetAvailability(deps, cfg.BusinessHours)),
		Health:       handlers.NewHealthHandler(checks),
		Metrics:      collector.Handler(),
		JWTSecret:    cfg.JWTSecret,
		CORSOrigins:  cfg.CORSOrigins,
		Log:          log.WithComponent("http"),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(r, "eva-agendamento"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr()).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	// ======================================================
	// 🛑 SHUTDOWN
	// ======================================================
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown incomplete")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.WithError(err).Warn("notifier queue not fully drained")
	}
	if kafkaSink != nil {
		if err := kafkaSink.Close(); err != nil {
			log.WithError(err).Warn("kafka writer close failed")
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.WithError(err).Warn("tracing shutdown failed")
	}
}
