package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/bap-api/api/swagger"
	"github.com/noah-isme/bap-api/internal/handler"
	"github.com/noah-isme/bap-api/internal/models"
	"github.com/noah-isme/bap-api/internal/repository"
	"github.com/noah-isme/bap-api/internal/router"
	"github.com/noah-isme/bap-api/internal/service"
	"github.com/noah-isme/bap-api/pkg/config"
	"github.com/noah-isme/bap-api/pkg/database"
	"github.com/noah-isme/bap-api/pkg/logger"
	"github.com/noah-isme/bap-api/pkg/storage"
)

// @title BAP Request API
// @version 1.0.0
// @description Submission, review and export of BAP interview requests.
// @BasePath /
// @schemes http

// store is the whole-collection persistence contract shared by the JSON
// file and PostgreSQL backends.
type store interface {
	Load(ctx context.Context) ([]models.Record, error)
	Save(ctx context.Context, records []models.Record) error
	Ping(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg.Env, cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	records, closeStore, err := openStore(cfg, logr)
	if err != nil {
		logr.Fatal("failed to open record store", zap.Error(err))
	}
	defer closeStore()

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	attachments := storage.NewAttachmentStore(cfg.Uploads.Dir, logr)
	recordSvc := service.NewRecordService(records, attachments, metrics, nil, logr, service.RecordServiceConfig{})
	exportSvc := service.NewExportService(recordSvc, logr, nil, nil)
	authSvc := service.NewAuthService(logr, service.AuthConfig{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
	})

	engine := router.New(logr, metrics, router.Handlers{
		Auth:    handler.NewAuthHandler(authSvc),
		Records: handler.NewRecordHandler(recordSvc, cfg.Uploads.MaxBytes, logr),
		Export:  handler.NewExportHandler(exportSvc),
		Health:  handler.NewHealthHandler(metrics, records, logr),
	}, router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableMetrics:  cfg.Metrics.Enabled,
		EnableDocs:     cfg.Env != config.EnvProduction,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.Store.Driver),
			zap.String("upload_dir", attachments.Dir()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logr.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err, ok := <-errCh:
		if ok {
			logr.Error("server failed", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
		return
	}
	logr.Info("server stopped")
}

func openStore(cfg *config.Config, logr *zap.Logger) (store, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewRecordPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logr.Info("using postgres record store", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))
		return repo, func() {
			if err := db.Close(); err != nil {
				logr.Warn("failed to close database", zap.Error(err))
			}
		}, nil
	default:
		repo := repository.NewRecordFileRepository(cfg.Store.DataFile, logr)
		logr.Info("using json record store", zap.String("path", repo.Path()))
		return repo, func() {}, nil
	}
}
