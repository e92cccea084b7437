package controller

import (
	"dayflow-api/core/controller"
	"dayflow-api/core/errors"
	"dayflow-api/core/utils"
	"dayflow-api/modules/auth/dto"
	"dayflow-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

func NewAuthController(authService service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    authService,
	}
}

// Connect returns the provider authorization URL for the caller to redirect
// the user to.
func (ctrl *AuthController) Connect(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utils.GetUserID(c)
	if err != nil {
		return ctrl.Unauthorized(errors.ErrUnauthenticated, "user identification required")
	}

	onboarding := c.QueryParam("onboarding") == "true"

	url, appErr := ctrl.AuthService.StartAuthorization(ctx, userID, onboarding)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}

	return ctrl.SuccessResponse(c, dto.AuthorizationURLResponse{URL: url}, "Authorization URL generated")
}

// Callback handles the provider redirect. The state parameter identifies the
// user, so this route carries no user header.
func (ctrl *AuthController) Callback(c echo.Context) error {
	ctx := c.Request().Context()

	code := c.QueryParam("code")
	state := c.QueryParam("state")
	providerError := c.QueryParam("error")

	result, appErr := ctrl.AuthService.CompleteAuthorization(ctx, code, state, providerError)
	if appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}

	return ctrl.SuccessResponse(c, result, "Calendar connected")
}

func (ctrl *AuthController) Disconnect(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utils.GetUserID(c)
	if err != nil {
		return ctrl.Unauthorized(errors.ErrUnauthenticated, "user identification required")
	}

	if appErr := ctrl.AuthService.Disconnect(ctx, userID); appErr != nil {
		return ctrl.ErrorResponse(c, appErr)
	}

	return ctrl.SuccessResponse(c, nil, "Calendar disconnected")
}
