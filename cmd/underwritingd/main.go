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

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/application/usecase"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/port"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/domain/service"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/infrastructure/cache"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/infrastructure/config"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/infrastructure/messaging"
	pgRepo "github.com/trevorb11/CapitalLoanConnect-sub004/internal/infrastructure/persistence/postgres"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/infrastructure/validation"
	grpcPresentation "github.com/trevorb11/CapitalLoanConnect-sub004/internal/presentation/grpc"
	"github.com/trevorb11/CapitalLoanConnect-sub004/internal/presentation/rest"
	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/auth"
	pkgkafka "github.com/trevorb11/CapitalLoanConnect-sub004/pkg/kafka"
	"github.com/trevorb11/CapitalLoanConnect-sub004/pkg/observability"
	pkgpostgres "github.com/trevorb11/CapitalLoanConnect-sub004/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("underwriting-service exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
	})
	logger.Info("starting underwriting-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Tracing is optional.
	if cfg.Tracing.Endpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	// Metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck
	metrics, err := observability.NewEngineMetrics(otel.Meter(cfg.ServiceName))
	if err != nil {
		return fmt.Errorf("init engine metrics: %w", err)
	}

	// Database connection and migrations.
	dbCfg := pkgpostgres.Config{
		Host:            cfg.DB.Host,
		Port:            cfg.DB.Port,
		User:            cfg.DB.User,
		Password:        cfg.DB.Password,
		Database:        cfg.DB.Name,
		SSLMode:         cfg.DB.SSLMode,
		ApplicationName: cfg.ServiceName,
	}
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	dbCancel()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.RunMigrations(dbCfg.DSN(), cfg.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	readiness := map[string]rest.ReadinessCheck{
		"postgres": func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) },
	}

	// Classification cache.
	var classificationCache port.ClassificationCache
	if cfg.Redis.Enabled {
		redisClient := cache.NewRedisClient(cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		classificationCache = cache.NewClassificationCache(redisClient, cfg.Redis.TTL)
		readiness["redis"] = func(ctx context.Context) error { return pingRedis(ctx, redisClient) }
	}

	// Wire infrastructure adapters.
	decisionRepo := pgRepo.NewDecisionRepo(pool)
	outboxRepo := pgRepo.NewOutboxRepo(pool)

	validator, err := validation.NewApprovalValidator()
	if err != nil {
		return fmt.Errorf("init approval validator: %w", err)
	}

	kafkaCfg := pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLEnabled,
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,

		RetryBackoff:    cfg.Kafka.RetryBackoff,
		MaxRetryBackoff: cfg.Kafka.MaxRetryBackoff,
	}
	producer, err := pkgkafka.NewProducer(kafkaCfg)
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer producer.Close()
	publisher := messaging.NewKafkaEventPublisher(producer, cfg.Kafka.EventsTopic, logger)
	relay := messaging.NewOutboxRelay(outboxRepo, publisher, metrics, logger, cfg.Outbox.PollInterval, cfg.Outbox.BatchSize)

	classifier := service.NewEligibilityClassifier(service.WithPartnerLinks(service.PartnerLinks{
		CreditStacking:     cfg.Partners.CreditStacking,
		CreditOptimization: cfg.Partners.CreditOptimization,
		CreditRepair:       cfg.Partners.CreditRepair,
		BusinessCredit:     cfg.Partners.BusinessCredit,
		SecuredCard:        cfg.Partners.SecuredCard,
		RevenueCoaching:    cfg.Partners.RevenueCoaching,
		InvoiceFactoring:   cfg.Partners.InvoiceFactoring,
		EquipmentLeasing:   cfg.Partners.EquipmentLeasing,
		Consultation:       cfg.Partners.Consultation,
	}))

	// Wire use cases.
	ingestUC := usecase.NewIngestDecisionUseCase(decisionRepo, validator, metrics, logger)
	handler := grpcPresentation.NewUnderwritingHandler(grpcPresentation.UseCases{
		Classify: usecase.NewClassifyApplicantUseCase(classifier, classificationCache, metrics, logger),
		Create:   usecase.NewCreateDecisionUseCase(decisionRepo, validator),
		Get:      usecase.NewGetDecisionUseCase(decisionRepo, metrics),
		List:     usecase.NewListDecisionsUseCase(decisionRepo, metrics),
		Update:   usecase.NewUpdateDecisionUseCase(decisionRepo, validator),
		Migrate:  usecase.NewMigrateLegacyDecisionsUseCase(decisionRepo, metrics, logger),
	}, logger)

	// JWT service (validation-only when a public key is configured).
	var jwtSvc *auth.JWTService
	if cfg.Auth.Enabled {
		jwtCfg := auth.JWTConfig{Issuer: cfg.Auth.Issuer, Secret: cfg.Auth.JWTSecret}
		if cfg.Auth.JWTPublicKeyFile != "" {
			keyData, err := auth.LoadKeyFromFile(cfg.Auth.JWTPublicKeyFile)
			if err != nil {
				return err
			}
			jwtCfg.PublicKeyPEM = string(keyData)
		}
		if jwtSvc, err = auth.NewJWTService(jwtCfg); err != nil {
			return fmt.Errorf("init JWT service: %w", err)
		}
	}

	grpcServer, err := grpcPresentation.NewServer(handler, logger, grpcPresentation.ServerConfig{
		ServiceName:  cfg.ServiceName,
		JWT:          jwtSvc,
		CertFile:     cfg.TLS.CertFile,
		KeyFile:      cfg.TLS.KeyFile,
		ClientCAFile: cfg.TLS.ClientCAFile,
		Reflection:   cfg.GRPCReflection,
	})
	if err != nil {
		return fmt.Errorf("create gRPC server: %w", err)
	}

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	rest.NewHealthHandler(cfg.ServiceName, readiness, metricsHandler, logger).RegisterRoutes(mux)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers and background workers.
	errCh := make(chan error, 4)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	go func() {
		if err := relay.Run(ctx); err != nil {
			errCh <- fmt.Errorf("outbox relay error: %w", err)
		}
	}()

	if cfg.Kafka.IntakeEnabled {
		intake := messaging.NewIntakeHandler(ingestUC, logger)
		consumer, err := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.IntakeTopic, intake.Handle, logger)
		if err != nil {
			return fmt.Errorf("create intake consumer: %w", err)
		}
		defer consumer.Close()
		go func() {
			if err := consumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("intake consumer error: %w", err)
			}
		}()
	}

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("component failed", "error", err)
	}
	cancel()

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("underwriting-service stopped")
	return nil
}

func pingRedis(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
