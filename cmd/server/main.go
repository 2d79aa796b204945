package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"skillarena/internal/api"
	"skillarena/internal/app/service"
	"skillarena/internal/app/worker"
	"skillarena/internal/common/security"
	"skillarena/internal/domain/gamification"
	"skillarena/internal/domain/repository"
	"skillarena/internal/platform/config"
	"skillarena/internal/platform/database"
	"skillarena/internal/platform/logging"
	"skillarena/internal/platform/queue"
	"skillarena/internal/platform/storage"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run owns every resource so deferred closes happen before the process exits.
func run() error {
	// 1. Load Configuration
	cfg := config.Load()
	logger := logging.New(cfg.AppEnv)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return err
	}
	logger.Info("configuration loaded", "env", cfg.AppEnv)

	ctx := context.Background()

	// 2. Initialize Database
	db, err := database.Connect(ctx, cfg.DBConnStr, logger)
	if err != nil {
		logger.Error("database startup failed", "error", err)
		return err
	}
	defer database.Close(db, logger)

	// 3. Initialize Redis
	rdb, err := queue.ConnectRedis(ctx, queue.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, logger)
	if err != nil {
		logger.Error("redis startup failed", "error", err)
		return err
	}
	defer queue.CloseRedis(rdb, logger)

	// 4. Initialize media storage
	media, err := storage.NewMinIOClient(storage.MinIOConfig{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		Bucket:    cfg.MinIOBucket,
		UseSSL:    cfg.MinIOUseSSL,
	}, logger)
	if err != nil {
		logger.Error("minio startup failed", "error", err)
		return err
	}
	if err := media.EnsureBucket(ctx); err != nil {
		// Uploads fail with 502 until storage is reachable; the rest of the
		// API does not depend on it.
		logger.Warn("media bucket not ready", "error", err)
	}

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	profileRepo := repository.NewPgProfileRepository(db)
	gamificationStore := repository.NewRedisGamificationStore(rdb)

	// 6. Initialize Services
	sessions := security.NewSessionManager(security.SessionConfig{
		Secret:     cfg.JWTKey,
		TTL:        cfg.SessionTTL,
		CookieName: cfg.SessionCookieName,
		Secure:     cfg.SessionCookieSecure,
	})
	events := service.NewRedisActivityPublisher(rdb, cfg.ActivityQueueName)
	engine := gamification.NewEngine(gamification.EngineConfig{CelebrationTTL: cfg.LevelUpDisplay()})

	authService := service.NewAuthService(userRepo, cfg.BcryptCost, events, logger)
	profileService := service.NewProfileService(userRepo, profileRepo, database.NewTxRunner(db), events, logger)
	gamificationService := service.NewGamificationService(gamificationStore, profileRepo, engine, cfg.GamificationLockTTL(), logger)
	uploadService := service.NewUploadService(media, cfg.UploadDefaultFolder, cfg.UploadURLExpiry(), logger)
	catalogService := service.NewCatalogService()

	// 7. Initialize Activity Worker (as a goroutine)
	activityWorker := worker.NewActivityWorker(rdb, cfg.ActivityQueueName, gamificationService, profileRepo, logger)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		activityWorker.Start(workerCtx)
	}()

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(api.Dependencies{
		Logger:              logger,
		Sessions:            sessions,
		AuthService:         authService,
		ProfileService:      profileService,
		GamificationService: gamificationService,
		UploadService:       uploadService,
		CatalogService:      catalogService,
		StaticDir:           cfg.StaticDir,
	})

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-stop:
	case runErr = <-serverErr:
		logger.Error("server failed", "port", cfg.APIPort, "error", runErr)
	}

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	workerCancel()
	wg.Wait()

	logger.Info("server and worker stopped gracefully")
	return runErr
}
