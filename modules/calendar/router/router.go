package router

import (
	"dayflow-api/core/middleware"
	"dayflow-api/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{
		controller: controller,
	}
}

func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	events := e.Group("/api/v1/private/calendar/events")
	events.Use(mw.UserContext())

	events.GET("", r.controller.ListEvents)
	events.POST("", r.controller.CreateEvent)
	events.PUT("/:id", r.controller.UpdateEvent)
	events.DELETE("/:id", r.controller.DeleteEvent)
}
