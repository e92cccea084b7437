package auth

import (
	"dayflow-api/core/cache"
	"dayflow-api/core/config"
	"dayflow-api/core/logger"
	"dayflow-api/core/middleware"
	"dayflow-api/modules/auth/controller"
	"dayflow-api/modules/auth/router"
	"dayflow-api/modules/auth/service"
	vaultService "dayflow-api/modules/vault/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, vault vaultService.Vault, cache cache.Cache) {
	cfg, ok := config.GetSafe()
	if !ok {
		logger.Warn("Auth:Init:ConfigNotInitialized")
		return
	}

	if cfg.GoogleAPI.ClientID == "" || cfg.GoogleAPI.ClientSecret == "" || cfg.GoogleAPI.RedirectURI == "" {
		logger.Warn("Auth:Init:GoogleOAuthNotConfigured", "reason", "calendar connect endpoints will reject requests")
	}

	oauthConfig := service.NewGoogleOAuthConfig(cfg.GoogleAPI)
	authService := service.NewAuthService(oauthConfig, cfg.GoogleAPI.StateSecret, vault, cache)
	authController := controller.NewAuthController(authService)
	mw := middleware.NewMiddleware()

	router.NewAuthRouter(authController).Setup(e, mw)
}
