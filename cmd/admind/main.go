package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/raf-aleaqarih/project-raf25/pkg/api"
	"github.com/raf-aleaqarih/project-raf25/pkg/auth"
	"github.com/raf-aleaqarih/project-raf25/pkg/config"
	"github.com/raf-aleaqarih/project-raf25/pkg/mailer"
	"github.com/raf-aleaqarih/project-raf25/pkg/middleware"
	"github.com/raf-aleaqarih/project-raf25/pkg/observability"
	"github.com/raf-aleaqarih/project-raf25/pkg/storage"
	"github.com/raf-aleaqarih/project-raf25/pkg/storage/mongo"
	"github.com/raf-aleaqarih/project-raf25/pkg/uploads"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "admind: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.WithFields(map[string]interface{}{
		"port":        cfg.Server.Port,
		"health_port": cfg.Server.HealthPort,
	}).Info("Starting admin console backend")

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	ctx := context.Background()

	// Storage: the document database when configured, otherwise the
	// in-memory fallback so the console still comes up.
	var store storage.Store
	if cfg.Storage.MongoURI != "" {
		mongoStore, err := mongo.Connect(ctx, cfg.Storage, metrics)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		store = mongoStore
		logger.WithField("database", cfg.Storage.Database).Info("Connected to document storage")
	} else {
		store = storage.NewMemoryStore()
		logger.Warn("MONGODB_URI not set, running in fallback mode with in-memory storage")
	}

	// Rate limit counters: Redis when configured so limits are shared
	// across instances, otherwise process-local.
	limits := middleware.RateLimitConfig{
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      cfg.RateLimit.Window,
	}
	var counter middleware.CounterStore = middleware.NewMemoryCounterStore(limits)
	var redisClient *redis.Client
	if cfg.RateLimit.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RateLimit.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		if cfg.RateLimit.RedisPassword != "" {
			opts.Password = cfg.RateLimit.RedisPassword
		}
		opts.DB = cfg.RateLimit.RedisDB
		redisClient = redis.NewClient(opts)
		counter = middleware.NewRedisCounterStore(redisClient, limits, "ratelimit")
		logger.Info("Rate limiting backed by Redis")
	}

	uploadStore, err := buildUploadStore(ctx, cfg)
	if err != nil {
		return err
	}

	var inquiryMailer mailer.Mailer = mailer.Disabled{}
	if cfg.SMTP.Host != "" {
		inquiryMailer = mailer.NewSMTPMailer(mailer.Config{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			From:      cfg.SMTP.From,
			Recipient: cfg.SMTP.Recipient,
		})
	} else {
		logger.Warn("SMTP not configured, inquiry emails are disabled")
	}

	server := api.NewServer(api.Options{
		Store:          store,
		Verifier:       auth.NewVerifier(cfg.Auth.JWTSecret),
		Counter:        counter,
		Limits:         limits,
		Uploads:        uploadStore,
		Mailer:         inquiryMailer,
		Logger:         logger,
		Metrics:        metrics,
		CORSOrigins:    cfg.CORS.AllowedOrigins,
		UploadMaxBytes: cfg.Uploads.MaxBytes,
	})

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      server.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthChecker := observability.NewHealthChecker(store, redisClient)
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", healthChecker.Liveness)
	healthMux.HandleFunc("/readyz", healthChecker.Readiness)
	if cfg.Observability.MetricsEnabled {
		healthMux.Handle("/metrics", metrics.Handler())
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, apiServer, healthServer)
	shutdown.RegisterShutdownFunc(store.Close)
	if redisClient != nil {
		shutdown.RegisterShutdownFunc(func(context.Context) error {
			return redisClient.Close()
		})
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Infof("API server listening on %s", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	go func() {
		logger.Infof("Health server listening on %s", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	go func() {
		if err := <-errCh; err != nil {
			logger.WithError(err).Error("Server failed")
			os.Exit(1)
		}
	}()

	return shutdown.WaitForShutdown()
}

func buildUploadStore(ctx context.Context, cfg *config.Config) (uploads.Store, error) {
	switch cfg.Uploads.Backend {
	case "s3":
		return uploads.NewS3Store(ctx, uploads.S3Config{
			Endpoint:      cfg.Uploads.S3Endpoint,
			Region:        cfg.Uploads.S3Region,
			Bucket:        cfg.Uploads.S3Bucket,
			AccessKey:     cfg.Uploads.S3AccessKey,
			SecretKey:     cfg.Uploads.S3SecretKey,
			PublicBaseURL: cfg.Uploads.PublicBaseURL,
		})
	default:
		return uploads.NewFilesystemStore(cfg.Uploads.Dir, cfg.Uploads.PublicBaseURL)
	}
}
