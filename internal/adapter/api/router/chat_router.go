package router

import (
	"github.com/labstack/echo/v4"

	"chatmarket/internal/adapter/api/handler"
	"chatmarket/internal/adapter/api/middleware"
	"chatmarket/internal/infrastructure/ratelimit"
)

// SetupChatRouter sets up all chat-related routes (excluding WebSocket)
func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware, limiter *ratelimit.RateLimiter) {
	chatHandler := handler.GetChatHandler()

	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.POST("/open/:storeId", chatHandler.OpenChat, roleMiddleware.BuyerOnly)
	chatGroup.GET("", chatHandler.ListConversations)
	chatGroup.GET("/:id", chatHandler.GetConversation)
	chatGroup.PUT("/:id/read", chatHandler.MarkRead)

	chatGroup.GET("/:id/messages", chatHandler.GetMessages)
	chatGroup.POST("/:id/messages", chatHandler.SendMessage, middleware.RateLimit(limiter, ratelimit.ActionSendMessage))
}
