package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"track-times/internal/auth"
	"track-times/internal/config"
	"track-times/internal/exporter"
	apphttp "track-times/internal/http"
	"track-times/internal/repository"
	"track-times/internal/repository/postgres"
	"track-times/internal/repository/sqlite"
	"track-times/internal/security"
	"track-times/internal/service"
	"track-times/internal/storage"
)

type repositories struct {
	users   repository.UserRepository
	times   repository.TimeRepository
	exports repository.ExportRepository
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, repos, err := openRepositories(ctx, cfg)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := repos.users.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := repos.times.Init(ctx); err != nil {
		logger.Fatalf("init time repository: %v", err)
	}
	if err := repos.exports.Init(ctx); err != nil {
		logger.Fatalf("init export repository: %v", err)
	}

	hasher, err := security.NewHasher(cfg.Hasher.Algorithm, cfg.Hasher.BcryptCost)
	if err != nil {
		logger.Fatalf("setup hasher: %v", err)
	}
	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.TokenTTL())
	if err != nil {
		logger.Fatalf("setup tokens: %v", err)
	}

	userService := service.NewUserService(repos.users, hasher)
	timeService := service.NewTimeService(repos.users, repos.times)
	exportService := service.NewExportService(repos.users, repos.times, repos.exports)

	var (
		storageSvc storage.Service
		manager    exporter.Manager
	)
	if cfg.StorageEnabled() {
		s3Svc, err := buildStorage(ctx, cfg, logger)
		if err != nil {
			logger.Fatalf("setup storage: %v", err)
		}
		storageSvc = s3Svc

		manager = exporter.NewManager(exporter.Config{
			MaxConcurrent: cfg.Export.MaxConcurrent,
			KeyPrefix:     cfg.Storage.KeyPrefix,
			UploadOptions: storage.UploadOptions{Bucket: cfg.Storage.Bucket},
			Logger:        logger,
		}, exportService, storageSvc)

		if err := manager.Start(ctx); err != nil {
			logger.Fatalf("start export manager: %v", err)
		}
		if err := manager.Resume(ctx); err != nil {
			logger.Warnf("resume exports: %v", err)
		}
	} else {
		logger.Warn("storage bucket not configured, exports are disabled")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(apphttp.Options{
		Users:     userService,
		Times:     timeService,
		Exports:   exportService,
		Manager:   manager,
		Storage:   storageSvc,
		Tokens:    tokens,
		Bucket:    cfg.Storage.Bucket,
		KeyPrefix: cfg.Storage.KeyPrefix,
		Logger:    logger,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	if manager != nil {
		manager.Shutdown()
	}

	logger.Info("bye")
}

func openRepositories(ctx context.Context, cfg config.Config) (*sql.DB, repositories, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, repositories{}, err
		}
		return db, repositories{
			users:   postgres.NewUserRepository(db),
			times:   postgres.NewTimeRepository(db),
			exports: postgres.NewExportRepository(db),
		}, nil
	case "sqlite":
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, repositories{}, err
		}
		return db, repositories{
			users:   sqlite.NewUserRepository(db),
			times:   sqlite.NewTimeRepository(db),
			exports: sqlite.NewExportRepository(db),
		}, nil
	default:
		return nil, repositories{}, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	client, err := storage.NewS3Client(ctx, storage.ClientConfig{
		Region:          cfg.Storage.Region,
		Endpoint:        cfg.Storage.Endpoint,
		Profile:         cfg.AWS.Profile,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
