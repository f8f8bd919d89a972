package router

import (
	"github.com/labstack/echo/v4"

	"chatmarket/internal/adapter/api/handler"
	"chatmarket/internal/adapter/api/middleware"
)

func SetupStoreRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	storeHandler := handler.GetStoreHandler()

	stores := e.Group("/v1/stores")
	stores.GET("", storeHandler.ListStores)
	stores.GET("/:id", storeHandler.GetStore)
	stores.GET("/:id/products", storeHandler.GetStoreProducts)

	owner := e.Group("/v1/stores")
	owner.Use(authMiddleware.Authenticate)
	owner.Use(roleMiddleware.SellerOnly)
	owner.POST("", storeHandler.CreateStore)
	owner.PUT("/:id", storeHandler.UpdateStore)
	owner.GET("/:id/stats", storeHandler.GetStoreStats)
	owner.GET("/:id/orders", storeHandler.GetStoreOrders)

	seller := e.Group("/v1/seller")
	seller.Use(authMiddleware.Authenticate)
	seller.Use(roleMiddleware.SellerOnly)
	seller.GET("/store", storeHandler.GetMyStore)
	seller.GET("/products", storeHandler.GetMyProducts)
}
