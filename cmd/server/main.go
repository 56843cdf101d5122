// Package main is the entry point for the basketball program backend.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	athleteapp "github.com/AnderssonLeandro09/baloncesto-backend/internal/application/athlete"
	coachapp "github.com/AnderssonLeandro09/baloncesto-backend/internal/application/coach"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/common"
	enrollmentapp "github.com/AnderssonLeandro09/baloncesto-backend/internal/application/enrollment"
	groupapp "github.com/AnderssonLeandro09/baloncesto-backend/internal/application/group"
	measurementapp "github.com/AnderssonLeandro09/baloncesto-backend/internal/application/measurement"
	physicaltestapp "github.com/AnderssonLeandro09/baloncesto-backend/internal/application/physicaltest"
	grpcdelivery "github.com/AnderssonLeandro09/baloncesto-backend/internal/delivery/grpc"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/delivery/httpdelivery"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/athlete"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/coach"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/audit"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/config"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/messaging"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/postgres"
	redisinfra "github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/redis"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/storage"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/tracing"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/usermodule"
	"github.com/AnderssonLeandro09/baloncesto-backend/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Service failed")
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Setup(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.PrettyJSON)
	log.Logger = logger.WithFields(map[string]any{"service": cfg.App.Name, "env": cfg.App.Env})

	log.Info().Str("version", cfg.App.Version).Msg("Starting basketball backend")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupTracing := setupTracing(ctx, cfg)
	defer cleanupTracing()

	db, err := setupDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	redisClient := setupRedis(ctx, cfg)
	if redisClient != nil {
		defer closeRedis(redisClient)
	}

	publisher, closePublisher := setupMessaging(cfg)
	defer closePublisher()

	auditLogger := audit.NewPostgresLogger(db)
	services := buildServices(ctx, cfg, db, redisClient, auditLogger, publisher)

	var blacklist httpdelivery.TokenBlacklistChecker
	if redisClient != nil {
		blacklist = redisinfra.NewTokenBlacklist(redisClient, cfg.Auth.BlacklistPrefix)
	}
	verifier := httpdelivery.NewTokenVerifier(&cfg.Auth, blacklist)

	router := httpdelivery.NewRouter(services, verifier,
		httpdelivery.WithMaxUploadSize(cfg.Server.MaxUploadSize),
		httpdelivery.WithImportLimiter(httpdelivery.NewRateLimiter(cfg.RateLimit.ImportPerSecond, cfg.RateLimit.ImportBurstSize)),
	)

	checks := map[string]httpdelivery.HealthCheck{"postgres": db.Health}
	if redisClient != nil {
		checks["redis"] = redisClient.Ping
	}
	limiter := httpdelivery.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
	httpServer := httpdelivery.NewServer(&cfg.Server, router, limiter, checks)

	grpcServer := grpcdelivery.NewServer(&cfg.Server, map[string]grpcdelivery.Check{"postgres": db.Health})

	return serve(ctx, httpServer, grpcServer)
}

// buildServices wires the stores and adapters into the application services.
func buildServices(
	ctx context.Context,
	cfg *config.Config,
	db *postgres.DB,
	redisClient *redisinfra.Client,
	auditLogger *audit.PostgresLogger,
	publisher common.Publisher,
) httpdelivery.Services {
	var athletes athlete.Repository = postgres.NewAthleteDAO(db)
	if redisClient != nil {
		athletes = redisinfra.NewAthleteCache(athletes, redisClient, cfg.Redis.CacheTTL)
	}
	coaches := postgres.NewCoachDAO(db)
	enrollments := postgres.NewEnrollmentDAO(db)

	var coachOpts []coachapp.Option
	if cfg.UserModule.Enabled() {
		coachOpts = append(coachOpts, coachapp.WithPersonDirectory(usermodule.NewClient(&cfg.UserModule)))
	}
	if photos := setupStorage(ctx, cfg); photos != nil {
		coachOpts = append(coachOpts, coachapp.WithPhotoStore(photos))
	}

	return httpdelivery.Services{
		Athletes:      athleteapp.NewService(athletes, auditLogger, nil),
		Coaches:       coachapp.NewService(coaches, coach.Rules{EmailDomain: cfg.Domain.InstitutionalEmailDomain}, auditLogger, coachOpts...),
		Groups:        groupapp.NewService(postgres.NewGroupDAO(db), athletes, coaches, auditLogger, nil),
		Enrollments:   enrollmentapp.NewService(enrollments, athletes, auditLogger, nil),
		Measurements:  measurementapp.NewService(postgres.NewMeasurementDAO(db), athletes, enrollments, auditLogger, publisher, nil),
		PhysicalTests: physicaltestapp.NewService(postgres.NewPhysicalTestDAO(db), athletes, auditLogger, publisher, nil),
		Audit:         auditLogger,
	}
}

// setupTracing initializes tracing and returns a cleanup function.
func setupTracing(ctx context.Context, cfg *config.Config) func() {
	tracingProvider, err := tracing.NewProvider(ctx, &cfg.Tracing, &cfg.App)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to setup tracing, continuing without it")
		return func() {}
	}

	if tracingProvider == nil {
		return func() {}
	}

	return func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tracingProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Failed to shutdown tracing provider")
		}
	}
}

// setupDatabase creates a database connection.
func setupDatabase(ctx context.Context, cfg *config.Config) (*postgres.DB, error) {
	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.Name).
		Msg("Database connection established")

	return db, nil
}

// closeDatabase closes the database connection.
func closeDatabase(db *postgres.DB) {
	if err := db.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close database connection")
	}
}

// setupRedis creates a Redis connection (optional - graceful degradation).
func setupRedis(ctx context.Context, cfg *config.Config) *redisinfra.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	redisClient, err := redisinfra.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis, continuing without cache")
		return nil
	}

	log.Info().
		Str("host", cfg.Redis.Host).
		Int("port", cfg.Redis.Port).
		Msg("Redis connection established")

	return redisClient
}

// closeRedis closes the Redis connection.
func closeRedis(client *redisinfra.Client) {
	if err := client.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close Redis connection")
	}
}

// setupMessaging returns the event publisher and its cleanup function.
func setupMessaging(cfg *config.Config) (common.Publisher, func()) {
	if !cfg.Messaging.Enabled {
		return messaging.NoopPublisher{}, func() {}
	}
	publisher := messaging.NewRabbitPublisher(&cfg.Messaging)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close RabbitMQ publisher")
		}
	}
}

// setupStorage connects to MinIO when photo storage is enabled.
func setupStorage(ctx context.Context, cfg *config.Config) coach.PhotoStore {
	if !cfg.Storage.Enabled {
		return nil
	}
	store, err := storage.NewMinIOStore(ctx, &cfg.Storage)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to setup photo storage, uploads disabled")
		return nil
	}
	return store
}

// serve runs both servers until a shutdown signal arrives.
func serve(ctx context.Context, httpServer *httpdelivery.Server, grpcServer *grpcdelivery.Server) error {
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- err
		}
	}()
	go grpcServer.Watch(ctx, 15*time.Second)

	go func() {
		if err := httpServer.Start(); err != nil {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down servers...")
	case runErr = <-errCh:
		log.Error().Err(runErr).Msg("Server failed, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	grpcServer.Stop()

	log.Info().Msg("Server shutdown complete")
	return runErr
}
