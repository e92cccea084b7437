package schedule

import (
	"time"

	"dayflow-api/core/config"
	"dayflow-api/core/database"
	"dayflow-api/core/logger"
	"dayflow-api/core/middleware"
	calendarService "dayflow-api/modules/calendar/service"
	"dayflow-api/modules/schedule/controller"
	"dayflow-api/modules/schedule/repository"
	"dayflow-api/modules/schedule/router"
	"dayflow-api/modules/schedule/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, gateway calendarService.CalendarService) {
	cfg, ok := config.GetSafe()
	if !ok {
		logger.Warn("Schedule:Init:ConfigNotInitialized")
		return
	}

	location, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		logger.Warn("Schedule:Init:InvalidTimezone", "timezone", cfg.Schedule.Timezone, "error", err)
		location = time.UTC
	}

	store := repository.NewScheduleRepository(db)
	reconciler := service.NewReconciler(gateway, store)
	analyzer := service.NewAvailabilityAnalyzer()
	assembler := service.NewContextService(reconciler, store, analyzer, location)
	scheduleService := service.NewScheduleService(store)

	scheduleController := controller.NewScheduleController(scheduleService, assembler)
	mw := middleware.NewMiddleware()

	router.NewScheduleRouter(scheduleController).Setup(e, mw)
}
