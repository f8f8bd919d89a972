package handler

import (
	"chatmarket/internal/usecase"
)

var (
	authHandler    *AuthHandler
	storeHandler   *StoreHandler
	productHandler *ProductHandler
	cartHandler    *CartHandler
	orderHandler   *OrderHandler
	chatHandler    *ChatHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	commerceUseCase *usecase.CommerceUseCase,
	chatUseCase *usecase.ChatUseCase,
	checkoutUseCase *usecase.CheckoutUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	storeHandler = NewStoreHandler(commerceUseCase)
	productHandler = NewProductHandler(commerceUseCase)
	cartHandler = NewCartHandler(commerceUseCase)
	orderHandler = NewOrderHandler(commerceUseCase, checkoutUseCase, authUseCase)
	chatHandler = NewChatHandler(chatUseCase, checkoutUseCase, commerceUseCase, authUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetStoreHandler() *StoreHandler {
	return storeHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetCartHandler() *CartHandler {
	return cartHandler
}

func GetOrderHandler() *OrderHandler {
	return orderHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}
