package calendar

import (
	"fmt"

	"dayflow-api/core/config"
	"dayflow-api/core/middleware"
	authService "dayflow-api/modules/auth/service"
	"dayflow-api/modules/calendar/controller"
	"dayflow-api/modules/calendar/router"
	"dayflow-api/modules/calendar/service"
	vaultService "dayflow-api/modules/vault/service"

	"github.com/labstack/echo/v4"
)

// Init wires the event CRUD surface and returns the gateway service so other
// modules can read the remote calendar through it. The reconciler depends on
// the returned service, so an uninitialized config is a hard error rather
// than a nil gateway waiting to panic on the first request.
func Init(e *echo.Echo, vault vaultService.Vault) (service.CalendarService, error) {
	cfg, ok := config.GetSafe()
	if !ok {
		return nil, fmt.Errorf("config is not initialized")
	}

	oauthConfig := authService.NewGoogleOAuthConfig(cfg.GoogleAPI)
	calendarService := service.NewCalendarService(vault, oauthConfig, nil)
	calendarController := controller.NewCalendarController(calendarService)
	mw := middleware.NewMiddleware()

	router.NewCalendarRouter(calendarController).Setup(e, mw)
	return calendarService, nil
}
