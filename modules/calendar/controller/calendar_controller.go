package controller

import (
	"time"

	"dayflow-api/core/controller"
	"dayflow-api/core/errors"
	"dayflow-api/core/utils"
	"dayflow-api/modules/calendar/dto"
	"dayflow-api/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	controller.BaseController
	CalendarService service.CalendarService
}

func NewCalendarController(calendarService service.CalendarService) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		CalendarService: calendarService,
	}
}

// ListEvents returns the user's provider events in the requested window.
// time_min / time_max default to today through a week out.
func (ctrl *CalendarController) ListEvents(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utils.GetUserID(c)
	if err != nil {
		return ctrl.Unauthorized(errors.ErrUnauthenticated, "user identification required")
	}

	timeMin := time.Now()
	timeMax := timeMin.AddDate(0, 0, 7)
	if raw := c.QueryParam("time_min"); raw != "" {
		parsed, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			return ctrl.BadRequest(errors.ErrInvalidRequestData, "time_min must be RFC3339")
		}
		timeMin = parsed
	}
	if raw := c.QueryParam("time_max"); raw != "" {
		parsed, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			return ctrl.BadRequest(errors.ErrInvalidRequestData, "time_max must be RFC3339")
		}
		timeMax = parsed
	}

	events, appErr := ctrl.CalendarService.ListEvents(ctx, userID, c.QueryParam("calendar_id"), timeMin, timeMax)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}

	return ctrl.SuccessResponse(c, events, "Events retrieved")
}

func (ctrl *CalendarController) CreateEvent(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utils.GetUserID(c)
	if err != nil {
		return ctrl.Unauthorized(errors.ErrUnauthenticated, "user identification required")
	}

	var req dto.EventRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	created, appErr := ctrl.CalendarService.CreateEvent(ctx, userID, c.QueryParam("calendar_id"), &req)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}

	return ctrl.SuccessResponse(c, created, "Event created")
}

func (ctrl *CalendarController) UpdateEvent(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utils.GetUserID(c)
	if err != nil {
		return ctrl.Unauthorized(errors.ErrUnauthenticated, "user identification required")
	}

	var req dto.EventRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	updated, appErr := ctrl.CalendarService.UpdateEvent(ctx, userID, c.QueryParam("calendar_id"), c.Param("id"), &req)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}

	return ctrl.SuccessResponse(c, updated, "Event updated")
}

func (ctrl *CalendarController) DeleteEvent(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utils.GetUserID(c)
	if err != nil {
		return ctrl.Unauthorized(errors.ErrUnauthenticated, "user identification required")
	}

	if appErr := ctrl.CalendarService.DeleteEvent(ctx, userID, c.QueryParam("calendar_id"), c.Param("id")); appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}

	return ctrl.SuccessResponse(c, nil, "Event deleted")
}
