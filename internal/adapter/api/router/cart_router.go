package router

import (
	"github.com/labstack/echo/v4"

	"chatmarket/internal/adapter/api/handler"
	"chatmarket/internal/adapter/api/middleware"
)

// SetupCartRouter exposes the shared cart to any signed-in account.
func SetupCartRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	cartHandler := handler.GetCartHandler()

	cart := e.Group("/v1/cart")
	cart.Use(authMiddleware.Authenticate)

	cart.GET("", cartHandler.GetCart)
	cart.POST("", cartHandler.AddToCart)
	cart.DELETE("", cartHandler.ClearCart)
	cart.PUT("/:listingId", cartHandler.UpdateQuantity)
	cart.DELETE("/:listingId", cartHandler.RemoveItem)
}
