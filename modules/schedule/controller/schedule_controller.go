package controller

import (
	"time"

	"dayflow-api/core/controller"
	"dayflow-api/core/errors"
	"dayflow-api/core/utils"
	"dayflow-api/modules/schedule/dto"
	"dayflow-api/modules/schedule/service"

	"github.com/labstack/echo/v4"
)

type ScheduleController struct {
	controller.BaseController
	ScheduleService  service.ScheduleService
	ContextAssembler service.ContextAssembler
}

func NewScheduleController(scheduleService service.ScheduleService, assembler service.ContextAssembler) *ScheduleController {
	return &ScheduleController{
		BaseController:   controller.NewBaseController(),
		ScheduleService:  scheduleService,
		ContextAssembler: assembler,
	}
}

// GetContext returns the composed schedule context for the current instant.
// An optional `now` query parameter (RFC3339) pins the instant, which keeps
// the payload reproducible for consumers that replay requests.
func (ctrl *ScheduleController) GetContext(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utils.GetUserID(c)
	if err != nil {
		return ctrl.Unauthorized(errors.ErrUnauthenticated, "user identification required")
	}

	now := time.Now()
	if raw := c.QueryParam("now"); raw != "" {
		parsed, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			return ctrl.BadRequest(errors.ErrInvalidRequestData, "now must be RFC3339")
		}
		now = parsed
	}

	scheduleContext, appErr := ctrl.ContextAssembler.BuildContext(ctx, userID, now)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}

	return ctrl.SuccessResponse(c, scheduleContext, "Schedule context assembled")
}

func (ctrl *ScheduleController) ListItems(c echo.Context) error {
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

	items, appErr := ctrl.ScheduleService.ListItems(ctx, userID, timeMin, timeMax)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}

	return ctrl.SuccessResponse(c, items, "Schedule items retrieved")
}

func (ctrl *ScheduleController) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utils.GetUserID(c)
	if err != nil {
		return ctrl.Unauthorized(errors.ErrUnauthenticated, "user identification required")
	}

	var req dto.ScheduleItemRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.BadRequest(errors.ErrInvalidRequestData, "invalid request body")
	}

	item, appErr := ctrl.ScheduleService.CreateItem(ctx, userID, &req)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}

	return ctrl.SuccessResponse(c, item, "Schedule item created")
}

func (ctrl *ScheduleController) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utils.GetUserID(c)
	if err != nil {
		return ctrl.Unauthorized(errors.ErrUnauthenticated, "user identification required")
	}

	if appErr := ctrl.ScheduleService.DeleteItem(ctx, userID, c.Param("id")); appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}

	return ctrl.SuccessResponse(c, nil, "Schedule item deleted")
}
