package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/startpage/internal/config"
	"github.com/MrSnakeDoc/startpage/internal/docstore"
	"github.com/MrSnakeDoc/startpage/internal/httpserver"
	"github.com/MrSnakeDoc/startpage/internal/httpserver/deps"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/redis"
	"github.com/MrSnakeDoc/startpage/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/startpage/internal/store/redis"
	"github.com/MrSnakeDoc/startpage/internal/utils"
	"github.com/MrSnakeDoc/startpage/internal/version"
	"github.com/MrSnakeDoc/startpage/internal/widgets"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	backup      *scheduler.Backup
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Redis is optional: without it widgets are fetched on every request
	// and jumps are ranked without usage history.
	var cache *redisstore.Store
	var widgetCache widgets.Cache
	redisClient, err := redis.Connect(context.Background(), redis.OptionsFromConfig(cfg), loggerClient)
	switch {
	case errors.Is(err, redis.ErrDisabled):
		loggerClient.Info("redis not configured, cache disabled")
	case err != nil:
		loggerClient.Warn("redis unavailable, running without cache", logger.Error(err))
	default:
		loggerClient.Info("Redis initialized successfully")
		cache = redisstore.NewStore(redisClient)
		widgetCache = cache
	}

	store := docstore.New(cfg.DataFile, loggerClient)

	// Backups are optional too
	var backup *scheduler.Backup
	var backupTrigger chan struct{}
	if cfg.BackupsEnabled() {
		backupTrigger = make(chan struct{}, 1)
		backup = scheduler.NewBackup(
			store,
			cfg.BackupDir,
			cfg.BackupKeep,
			loggerClient,
			cfg.BackupInterval,
			backupTrigger,
		)
	} else {
		loggerClient.Info("backup dir not configured, scheduled backups disabled")
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Store:         store,
		Widgets:       widgets.NewServiceFromConfig(cfg, widgetCache, loggerClient),
		Cache:         cache,
		Backup:        backup,
		BackupTrigger: backupTrigger,
		MaxBodyBytes:  cfg.MaxBodyBytes,
		StaticDir:     cfg.StaticDir,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		backup:      backup,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting startpage %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("startpage %s", version.String())
	defer func() { _ = a.logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start backup scheduler (takes a first snapshot immediately)
	if a.backup != nil {
		if err := a.backup.Start(ctx); err != nil {
			return fmt.Errorf("failed to start backup scheduler: %w", err)
		}
		a.logger.Info("backup scheduler started",
			logger.String("dir", a.cfg.BackupDir),
			logger.Duration("interval", a.cfg.BackupInterval),
			logger.Int("keep", a.cfg.BackupKeep))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.backup != nil {
		a.backup.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		utils.MustClose(a.redisClient, "redis", a.logger)
		a.logger.Info("✅ Redis closed")
	}

	a.logger.Info("✅ startpage stopped cleanly")
	return nil
}
