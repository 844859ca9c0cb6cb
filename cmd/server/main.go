package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mjcnael/mechanical/internal/cfg"
	"github.com/mjcnael/mechanical/internal/maintenance"
	"github.com/mjcnael/mechanical/internal/notify"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mechanical",
		Short: "Учёт начальников цехов, технических работников и их задач",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP и gRPC серверы",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "notify",
		Short: "Читать события задач из Kafka и уведомлять начальников цехов",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotify(cmd.Context())
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Создать или обновить схему БД",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("service", "maintenance"))
	slog.SetDefault(logger)
	return logger
}

func migrate(cmd *cobra.Command) error {
	conf := cfg.LoadConfig()
	newLogger()

	db, err := connectDB(conf)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("access sql DB: %w", err)
	}
	defer sqlDB.Close()

	if err := maintenance.NewRepository(db).Migrate(cmd.Context()); err != nil {
		color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "migration failed: %v\n", err)
		return err
	}
	color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "schema is up to date")
	return nil
}

func serve(ctx context.Context) error {
	conf := cfg.LoadConfig()
	logger := newLogger()

	db, err := connectDB(conf)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("access sql DB: %w", err)
	}
	defer sqlDB.Close()

	repo := maintenance.NewRepository(db)
	if conf.AutoMigrate {
		if err := repo.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}

	cache, closeCache := newCache(conf, logger)
	defer closeCache()

	var producer maintenance.KafkaProducer
	if len(conf.KafkaBrokers) > 0 {
		producer = maintenance.NewKafkaProducer(conf.KafkaBrokers, conf.KafkaTopic)
		defer producer.Close()
	} else {
		logger.Info("KAFKA_BROKERS is empty, task events disabled")
	}

	service := maintenance.NewService(repo, cache, producer, logger)
	handler := maintenance.NewHandler(service, logger)
	checker := maintenance.NewHealthChecker(repo, conf.HealthProbeInterval, logger)

	httpMux := http.NewServeMux()
	handler.RegisterHandlers(httpMux)
	httpMux.Handle("GET /healthz", checker)

	httpServer := &http.Server{
		Addr:              ":" + conf.HTTPPort,
		Handler:           applyHTTPMiddleware(httpMux, conf, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcListener, err := net.Listen("tcp", ":"+conf.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen on gRPC port: %w", err)
	}
	grpcServer := grpc.NewServer()
	checker.Register(grpcServer)
	reflection.Register(grpcServer)

	healthCtx, stopHealth := context.WithCancel(ctx)
	defer stopHealth()
	go checker.Run(healthCtx)

	errCh := make(chan error, 2)

	go func() {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go func() {
		logger.Info("gRPC server listening", slog.String("addr", grpcListener.Addr().String()))
		if err := grpcServer.Serve(grpcListener); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", slog.Any("error", serveErr))
	}

	stopHealth()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.ShutdownGracePeriod)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", slog.Any("error", err))
	}
	grpcServer.GracefulStop()
	service.Drain()
	logger.Info("maintenance service stopped")
	return serveErr
}

func runNotify(ctx context.Context) error {
	conf := cfg.LoadConfig()
	logger := newLogger()

	if len(conf.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS must be set")
	}

	db, err := connectDB(conf)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("access sql DB: %w", err)
	}
	defer sqlDB.Close()

	cache, closeCache := newCache(conf, logger)
	defer closeCache()

	service := maintenance.NewService(maintenance.NewRepository(db), cache, nil, logger)
	handler := notify.NewEventHandler(service, notify.NewLogNotifier(logger), logger)
	consumer := notify.NewKafkaConsumer(conf.KafkaBrokers, conf.KafkaTopic, conf.KafkaGroupID, handler, logger)
	defer consumer.Close()

	logger.Info("task event consumer started",
		slog.String("topic", conf.KafkaTopic),
		slog.String("group", conf.KafkaGroupID),
	)
	if err := consumer.Run(ctx); err != nil {
		return fmt.Errorf("consume task events: %w", err)
	}
	logger.Info("task event consumer stopped")
	return nil
}

// newCache возвращает Redis-кэш или заглушку, если REDIS_ADDR не задан
func newCache(conf cfg.Config, logger *slog.Logger) (maintenance.Cache, func()) {
	if conf.RedisAddr == "" {
		logger.Info("REDIS_ADDR is empty, cache disabled")
		return maintenance.NewNoopCache(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.RedisAddr,
		Password: conf.RedisPassword,
		DB:       conf.RedisDB,
	})
	return maintenance.NewRedisCache(rdb, conf.CacheTTL), func() { _ = rdb.Close() }
}

func connectDB(conf cfg.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(conf.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("init sql DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(conf.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(conf.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(conf.DBConnMaxLifetime)

	return db, nil
}

func applyHTTPMiddleware(mux *http.ServeMux, conf cfg.Config, logger *slog.Logger) http.Handler {
	return maintenance.Chain(mux,
		maintenance.RequestIDMiddleware,
		maintenance.AccessLogMiddleware(logger),
		maintenance.NewRateLimiter(conf.RateLimitRequests, conf.RateLimitWindow).Middleware,
		maintenance.SecurityHeadersMiddleware,
		maintenance.CORSMiddleware(conf.AllowedCORSOrigins),
		maintenance.RequestSizeLimitMiddleware(conf.MaxBodyBytes),
	)
}
