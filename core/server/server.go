package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dayflow-api/core/cache"
	"dayflow-api/core/config"
	"dayflow-api/core/constants"
	"dayflow-api/core/database"
	"dayflow-api/core/logger"
	"dayflow-api/modules/auth"
	"dayflow-api/modules/calendar"
	"dayflow-api/modules/schedule"
	vaultRepository "dayflow-api/modules/vault/repository"
	vaultService "dayflow-api/modules/vault/service"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run wires the full application and blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisCache.Close()

	var store vaultRepository.CredentialStore
	switch cfg.Vault.Backend {
	case constants.VaultBackendS3:
		store = vaultRepository.NewS3CredentialStore(cfg.Vault)
	default:
		store = vaultRepository.NewCredentialRepository(db)
	}

	vault, appErr := vaultService.NewVaultService(store, cfg.Vault.Secret)
	if appErr != nil {
		return fmt.Errorf("failed to initialize credential vault: %w", appErr)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	auth.Init(e, vault, redisCache)
	gateway, err := calendar.Init(e, vault)
	if err != nil {
		return fmt.Errorf("failed to initialize calendar module: %w", err)
	}
	schedule.Init(e, db, gateway)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := e.Start(addr); err != nil {
			logger.Info("Server:Run:Stopped", "reason", err)
		}
	}()
	logger.Info("Server:Run:Started", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server:Run:ShuttingDown")
	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(ctx)
}
