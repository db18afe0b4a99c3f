package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/emporium-backend/config"
	"github.com/ikkim/emporium-backend/internal/app/controller"
	"github.com/ikkim/emporium-backend/internal/app/repository"
	"github.com/ikkim/emporium-backend/internal/app/service"
	"github.com/ikkim/emporium-backend/internal/db"
	"github.com/ikkim/emporium-backend/internal/metrics"
	"github.com/ikkim/emporium-backend/internal/middleware"
	"github.com/ikkim/emporium-backend/internal/router"
	"github.com/ikkim/emporium-backend/internal/storage"
	"github.com/ikkim/emporium-backend/pkg/logger"
	"github.com/ikkim/emporium-backend/pkg/redis"
	"go.uber.org/multierr"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := cfg.Server.LogLevel
	if logLevel == "" {
		logLevel = "info"
		if cfg.Server.IsDevelopment() {
			logLevel = "debug"
		}
	}
	logFormat := "json"
	if cfg.Server.IsDevelopment() {
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting Emporium Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	if cfg.Database.AutoMigrate {
		if err := db.MigrateUp(ctx); err != nil {
			logger.Fatal("Failed to run migrations", err)
		}
	}

	// Token revocation is optional; without Redis, logout cannot invalidate tokens.
	var (
		tokenStore   *redis.TokenStore
		revoker      service.TokenRevoker
		revokedCheck middleware.TokenRevoker
	)
	if cfg.Redis.Addr != "" {
		tokenStore, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		revoker, revokedCheck = tokenStore, tokenStore
	} else {
		logger.Warn("REDIS_ADDR not set; logout will not revoke tokens")
	}

	uploader, local, err := newUploader(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage", err)
	}

	database := db.GetDB()
	userRepo := repository.NewUserRepository(database)
	shopRepo := repository.NewShopRepository(database)
	productRepo := repository.NewProductRepository(database)
	cartRepo := repository.NewCartRepository(database)
	reviewRepo := repository.NewReviewRepository(database)
	transactionRepo := repository.NewTransactionRepository(database)

	authService := service.NewAuthService(database, userRepo, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, revoker)
	shopService := service.NewShopService(database, shopRepo)
	productService := service.NewProductService(database, productRepo, shopRepo)
	cartService := service.NewCartService(database, cartRepo, productRepo)
	reviewService := service.NewReviewService(database, reviewRepo, productRepo)
	transactionService := service.NewTransactionService(database, transactionRepo, productRepo)
	uploadService := service.NewUploadService(uploader, local)

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewShopController(shopService),
		controller.NewProductController(productService, cfg.Pagination),
		controller.NewCartController(cartService, cfg.Pagination),
		controller.NewReviewController(reviewService, cfg.Pagination),
		controller.NewTransactionController(transactionService, cfg.Pagination),
		controller.NewUploadController(uploadService),
		middleware.NewAuthMiddleware(cfg.JWT.Secret, revokedCheck),
		metrics.NewHTTPMetrics(),
		cfg,
	)
	if local != nil {
		r.ServeMedia(local.Dir())
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r.Setup(),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server gracefully...")
	case err := <-serveErr:
		if err != nil {
			logger.Error("Server stopped unexpectedly", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	if tokenStore != nil {
		err = multierr.Append(err, tokenStore.Close())
	}
	err = multierr.Append(err, db.Close())
	if err != nil {
		logger.Error("Shutdown completed with errors", err)
		os.Exit(1)
	}
	logger.Info("Server stopped successfully")
}

// newUploader picks the upload strategy. local is non-nil only when the API
// stores files itself.
func newUploader(ctx context.Context, cfg config.StorageConfig) (storage.Uploader, *storage.LocalStorage, error) {
	if cfg.Strategy == config.StorageS3 {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3, cfg.KeyPrefix, cfg.PresignExpiry)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using S3 upload storage", map[string]interface{}{
			"bucket": cfg.S3.Bucket,
			"region": cfg.S3.Region,
		})
		return s3Storage, nil, nil
	}

	local, err := storage.NewLocalStorage(cfg.LocalDir)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Using local upload storage", map[string]interface{}{
		"dir": cfg.LocalDir,
	})
	return local, local, nil
}
