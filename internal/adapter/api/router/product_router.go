package router

import (
	"github.com/labstack/echo/v4"

	"chatmarket/internal/adapter/api/handler"
	"chatmarket/internal/adapter/api/middleware"
)

func SetupProductRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	productHandler := handler.GetProductHandler()

	// Sellers may see their own inactive listings
	productDetailGroup := e.Group("/v1/products")
	productDetailGroup.Use(authMiddleware.Identify)
	productDetailGroup.GET("/:id", productHandler.GetProduct)

	myProducts := e.Group("/v1/products")
	myProducts.Use(authMiddleware.Authenticate)
	myProducts.Use(roleMiddleware.SellerOnly)
	myProducts.POST("", productHandler.CreateProduct)
	myProducts.PUT("/:id", productHandler.UpdateProduct)
	myProducts.DELETE("/:id", productHandler.DeleteProduct)
}
