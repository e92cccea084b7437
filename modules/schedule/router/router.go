package router

import (
	"dayflow-api/core/middleware"
	"dayflow-api/modules/schedule/controller"

	"github.com/labstack/echo/v4"
)

type ScheduleRouter struct {
	controller *controller.ScheduleController
}

func NewScheduleRouter(controller *controller.ScheduleController) *ScheduleRouter {
	return &ScheduleRouter{
		controller: controller,
	}
}

func (r *ScheduleRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	schedule := e.Group("/api/v1/private/schedule")
	schedule.Use(mw.UserContext())

	schedule.GET("/context", r.controller.GetContext)
	schedule.GET("/items", r.controller.ListItems)
	schedule.POST("/items", r.controller.CreateItem)
	schedule.DELETE("/items/:id", r.controller.DeleteItem)
}
