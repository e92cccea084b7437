package router

import (
	"dayflow-api/core/middleware"
	"dayflow-api/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	controller *controller.AuthController
}

func NewAuthRouter(controller *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		controller: controller,
	}
}

func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	// The provider redirects here; identity comes from the state token.
	public := v1.Group("/public/calendar")
	public.GET("/oauth/callback", r.controller.Callback)

	private := v1.Group("/private/calendar")
	private.Use(mw.UserContext())
	private.GET("/connect", r.controller.Connect)
	private.DELETE("/connection", r.controller.Disconnect)
}
