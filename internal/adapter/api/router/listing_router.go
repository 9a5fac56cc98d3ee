package router

import (
	"github.com/labstack/echo/v4"

	"campusmarket/internal/adapter/api/handler"
	"campusmarket/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	listingHandler := handler.GetListingHandler()

	e.GET("/", listingHandler.Home)
	e.GET("/api/listings/search", listingHandler.Search)
	e.GET("/listings/:id", listingHandler.ShowListing)

	sell := e.Group("/listings")
	sell.Use(authMiddleware.RequireAuth)
	sell.GET("/new", listingHandler.ShowCreate)
	sell.POST("", listingHandler.Create)
	sell.GET("/:id/edit", listingHandler.ShowEdit)
	sell.POST("/:id/edit", listingHandler.Edit)
	sell.POST("/:id/status", listingHandler.UpdateStatus)
	sell.POST("/:id/delete", listingHandler.Delete)
	sell.POST("/:id/contact", listingHandler.ContactSeller)
}
