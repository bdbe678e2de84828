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
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/slot-scheduler/internal/audit"
	"github.com/BruksfildServices01/slot-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/slot-scheduler/internal/db"
	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/events"
	"github.com/BruksfildServices01/slot-scheduler/internal/handlers"
	"github.com/BruksfildServices01/slot-scheduler/internal/identity"
	"github.com/BruksfildServices01/slot-scheduler/internal/infra/memory"
	infraRepo "github.com/BruksfildServices01/slot-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/slot-scheduler/internal/obs"
	"github.com/BruksfildServices01/slot-scheduler/internal/routes"
	"github.com/BruksfildServices01/slot-scheduler/internal/timezone"
)

const serviceName = "slot-scheduler"

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := obs.SetupTracing(ctx, obs.TracingConfig{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  serviceName,
		OTLPEndpoint: cfg.OTelEndpoint,
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}

	// ======================================================
	// STORAGE
	// ======================================================
	var (
		providers domain.ProviderDirectory
		calendar  domain.CalendarStore
		ledger    domain.Ledger
		sinks     []audit.Sink
		auditLogs handlers.AuditLogLister
		checks    = map[string]handlers.Pinger{}
		closers   []func() error
	)

	switch cfg.StorageBackend {
	case config.BackendMemory:
		store := memory.NewProviderStore()
		providers, calendar, ledger = store, store, memory.NewLedger()
		slog.Warn("using in-memory storage; data is lost on restart")

	default:
		db, err := dbpkg.NewDB(cfg.DBUrl)
		if err != nil {
			return err
		}
		closers = append(closers, func() error { return dbpkg.Close(db) })
		checks["postgres"] = handlers.PingFunc(dbpkg.Ping(db))

		providerRepo := infraRepo.NewProviderGormRepository(db)
		providers, calendar = providerRepo, providerRepo
		appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
		ledger = appointmentRepo

		auditLogger := audit.New(db)
		sinks = append(sinks, auditLogger)
		auditLogs = auditLogger

		if cfg.CalendarBackend == config.CalendarRedis {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			closers = append(closers, rdb.Close)
			checks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			})

			redisCalendar := infraRepo.NewRedisCalendarStore(rdb, providerRepo)
			existing, err := providerRepo.ListProviders(ctx)
			if err != nil {
				return fmt.Errorf("load providers: %w", err)
			}
			active, err := appointmentRepo.ListActive(ctx)
			if err != nil {
				return fmt.Errorf("load active appointments: %w", err)
			}
			if err := redisCalendar.Seed(ctx, existing, active); err != nil {
				return fmt.Errorf("seed redis calendar: %w", err)
			}
			calendar = redisCalendar
			slog.Info("calendar store on redis",
				"addr", cfg.RedisAddr,
				"providers", len(existing),
				"held_slots", len(active),
			)
		}
	}

	// ======================================================
	// EVENTS
	// ======================================================
	if cfg.AMQPURL != "" {
		pub, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		closers = append(closers, pub.Close)
		sinks = append(sinks, pub)
		slog.Info("publishing events", "exchange", cfg.AMQPExchange)
	}

	dispatcher := audit.NewDispatcher(sinks...)

	// ======================================================
	// HTTP
	// ======================================================
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	if err := routes.RegisterRoutes(r, routes.Dependencies{
		Providers:    providers,
		Calendar:     calendar,
		Ledger:       ledger,
		Audit:        dispatcher,
		Tokens:       identity.NewTokens(cfg.JWTSecret, 24*time.Hour),
		Clock:        timezone.ClockIn(cfg.Timezone),
		Logger:       logger,
		CORSOrigins:  cfg.CORSOrigins,
		AuditLogs:    auditLogs,
		HealthChecks: checks,
	}); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           obs.HTTPHandler(r, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", cfg.Addr(), "storage", cfg.StorageBackend, "calendar", cfg.CalendarBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	// ======================================================
	// SHUTDOWN
	// ======================================================
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("audit flush: %w", err))
	}
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
	}

	return errors.Join(errs...)
}
