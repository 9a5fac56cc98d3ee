package router

import (
	"github.com/labstack/echo/v4"

	"campusmarket/internal/adapter/api/handler"
	"campusmarket/internal/adapter/api/middleware"
)

func SetupMessageRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	messageHandler := handler.GetMessageHandler()

	messages := e.Group("/messages")
	messages.Use(authMiddleware.RequireAuth)
	messages.GET("", messageHandler.Messages)
	messages.POST("", messageHandler.Send)

	api := e.Group("/api/messages")
	api.Use(authMiddleware.RequireAuth)
	api.GET("/unread", messageHandler.Unread)
	api.POST("/:id/read", messageHandler.MarkRead)
}
