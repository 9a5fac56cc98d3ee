package router

import (
	"github.com/labstack/echo/v4"

	"campusmarket/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, sessionMiddleware *middleware.SessionMiddleware, authMiddleware *middleware.AuthMiddleware) {
	e.Use(sessionMiddleware.Attach)

	SetupAuthRouter(e)
	SetupListingRouter(e, authMiddleware)
	SetupProfileRouter(e, authMiddleware)
	SetupMessageRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
