package router

import (
	"github.com/labstack/echo/v4"

	"chatmarket/internal/adapter/api/handler"
	"chatmarket/internal/adapter/api/middleware"
	"chatmarket/internal/infrastructure/ratelimit"
)

// SetupOrderRouter initializes checkout and order routes
func SetupOrderRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware, limiter *ratelimit.RateLimiter) {
	orderHandler := handler.GetOrderHandler()

	checkout := e.Group("/v1/checkout")
	checkout.Use(authMiddleware.Authenticate)
	checkout.Use(roleMiddleware.BuyerOnly)
	checkout.POST("/:storeId", orderHandler.Checkout)

	orders := e.Group("/v1/orders")
	orders.Use(authMiddleware.Authenticate)

	// Buyer endpoints
	orders.GET("", orderHandler.ListMyOrders, roleMiddleware.BuyerOnly)
	orders.POST("/:id/pay", orderHandler.PayOrder, roleMiddleware.BuyerOnly, middleware.RateLimit(limiter, ratelimit.ActionPayment))

	// Either party
	orders.GET("/:id", orderHandler.GetOrder)

	// Seller endpoints
	orders.PUT("/:id/status", orderHandler.UpdateStatus, roleMiddleware.SellerOnly)
	orders.POST("/:id/respond", orderHandler.RespondToOrder, roleMiddleware.SellerOnly)
	orders.POST("/:id/payment-request", orderHandler.RequestPayment, roleMiddleware.SellerOnly)
}
