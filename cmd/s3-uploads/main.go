package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/s3-uploads-api/internal/cache"
	"github.com/s3-uploads-api/internal/config"
	"github.com/s3-uploads-api/internal/database"
	"github.com/s3-uploads-api/internal/handlers"
	"github.com/s3-uploads-api/internal/logger"
	"github.com/s3-uploads-api/internal/repository"
	"github.com/s3-uploads-api/internal/services"
	"github.com/s3-uploads-api/internal/storage"
)

// S3 Uploads - stores forum uploads in an S3 bucket and serves the admin
// settings page.
func main() {
	cfg := config.Load()

	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	log.Info("Starting S3 Uploads...")

	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Settings store
	dbManager := database.NewManager(&cfg.DB, log)
	if err := dbManager.InitPool(ctx); err != nil {
		log.Fatal(fmt.Sprintf("Failed to initialize DB pool: %v", err))
	}

	settingRepo := repository.NewSettingRepository(dbManager.Pool())
	if err := settingRepo.EnsureSchema(ctx); err != nil {
		log.Fatal(fmt.Sprintf("Failed to prepare settings schema: %v", err))
	}

	// Object store and settings; routes are only mounted after the first
	// fetch succeeds.
	s3Store := storage.NewS3Storage(cfg.S3.InitialRegion(), cfg.S3.Endpoint)
	resolver := services.NewSettingsResolver(settingRepo, cfg.S3, s3Store, log)
	lifecycle := services.NewLifecycle(resolver, s3Store)

	if err := lifecycle.Activate(ctx); err != nil {
		log.Fatal(fmt.Sprintf("Failed to load settings: %v", err))
	}

	// Optional cross-process settings fan-out
	var notifier services.SettingsNotifier
	var redisClient *cache.Client
	if cfg.Redis.Enabled {
		client, err := cache.NewClient(&cfg.Redis)
		if err != nil {
			log.Fatal(fmt.Sprintf("Failed to initialize Redis client: %v", err))
		}
		redisClient = client
		notifier = client

		go client.SubscribeSettings(ctx, log.Subsystem("cache"), func(ctx context.Context) {
			_, _ = resolver.Refresh(ctx)
		})
	}

	writer := storage.NewWriter(s3Store, cfg.S3.URLStyle)
	transformer := services.NewImageTransformer(&http.Client{Timeout: 30 * time.Second})
	uploadService := services.NewUploadService(resolver, transformer, writer, cfg.Uploads, log)
	adminService := services.NewAdminService(settingRepo, resolver, notifier, log)

	router := handlers.SetupRouter(handlers.RouterDeps{
		Log:            log,
		AdminJWTSecret: cfg.Admin.JWTSecret,
		Upload:         handlers.NewUploadHandler(uploadService, cfg.Uploads.TmpDir),
		Admin:          handlers.NewAdminHandler(adminService),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Infof("S3 Uploads listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down S3 Uploads...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWith("S3 Uploads forced to shutdown", err, nil)
	}

	lifecycle.Deactivate()
	dbManager.Close()
	if redisClient != nil {
		redisClient.Close()
	}

	log.Info("S3 Uploads exited")
}
