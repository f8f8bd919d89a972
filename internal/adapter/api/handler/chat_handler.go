package handler

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"chatmarket/internal/adapter/api/middleware"
	"chatmarket/internal/domain/entity"
	"chatmarket/internal/usecase"
	"chatmarket/pkg/errors"
	"chatmarket/pkg/response"
	"chatmarket/pkg/utils"
)

type ChatHandler struct {
	chatUseCase     *usecase.ChatUseCase
	checkoutUseCase *usecase.CheckoutUseCase
	commerceUseCase *usecase.CommerceUseCase
	authUseCase     *usecase.AuthUseCase
}

func NewChatHandler(
	chatUseCase *usecase.ChatUseCase,
	checkoutUseCase *usecase.CheckoutUseCase,
	commerceUseCase *usecase.CommerceUseCase,
	authUseCase *usecase.AuthUseCase,
) *ChatHandler {
	return &ChatHandler{
		chatUseCase:     chatUseCase,
		checkoutUseCase: checkoutUseCase,
		commerceUseCase: commerceUseCase,
		authUseCase:     authUseCase,
	}
}

type sendMessageRequest struct {
	Type      entity.MessageType `json:"type" validate:"omitempty,oneof=text product_card"`
	Content   string             `json:"content"`
	ProductID string             `json:"productId"`
}

type conversationListResponse struct {
	Conversations []entity.Conversation `json:"conversations"`
	UnreadTotal   int                   `json:"unreadTotal"`
}

// OpenChat returns the buyer's conversation with a store, starting it on
// first contact.
func (h *ChatHandler) OpenChat(c echo.Context) error {
	buyer, ok := h.authUseCase.GetAccount(middleware.UserID(c))
	if !ok {
		return response.Error(c, errors.Unauthorized("Account no longer exists", nil))
	}

	conv, found, err := h.checkoutUseCase.OpenChat(c.Request().Context(), buyer, c.Param("storeId"))
	if err != nil {
		return response.Error(c, err)
	}
	if !found {
		return response.Error(c, errors.NotFound("Store", nil))
	}

	return response.Success(c, conv)
}

func (h *ChatHandler) ListConversations(c echo.Context) error {
	account, ok := h.authUseCase.GetAccount(middleware.UserID(c))
	if !ok {
		return response.Error(c, errors.Unauthorized("Account no longer exists", nil))
	}

	return response.Success(c, conversationListResponse{
		Conversations: h.chatUseCase.ConversationsFor(account.ID, account.Role),
		UnreadTotal:   h.chatUseCase.UnreadCount(account.ID, account.Role),
	})
}

func (h *ChatHandler) GetConversation(c echo.Context) error {
	conv, _, err := h.participant(middleware.UserID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conv)
}

// GetMessages pages through a conversation oldest first.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	conv, _, err := h.participant(middleware.UserID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	messages := h.chatUseCase.MessagesFor(conv.ID)
	pagination := utils.GetPaginationParams(c, 100)

	return response.Paginated(c, utils.Page(messages, pagination), int64(len(messages)), pagination.Page, pagination.PageSize)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := middleware.UserID(c)
	conv, role, err := h.participant(uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	input := usecase.PostMessageInput{
		ConversationID: conv.ID,
		SenderRole:     role,
		Type:           entity.MessageText,
		Content:        strings.TrimSpace(req.Content),
	}

	if req.Type == entity.MessageProductCard {
		listing, ok := h.commerceUseCase.GetListing(req.ProductID)
		if !ok || listing.StorefrontID != conv.StorefrontID {
			return response.Error(c, errors.NotFound("Product", nil))
		}
		input.Type = entity.MessageProductCard
		input.ProductCard = &entity.ProductCardPayload{
			ListingID: listing.ID,
			Name:      listing.Name,
			Price:     listing.Price,
			Image:     listing.Image,
		}
		if input.Content == "" {
			input.Content = listing.Name
		}
	} else if input.Content == "" {
		return response.Error(c, errors.Validation("content is required"))
	}

	msg, err := h.post(c.Request().Context(), uid, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, msg)
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	uid := middleware.UserID(c)
	if err := h.MarkConversationRead(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	conv, _ := h.chatUseCase.GetConversation(c.Param("id"))
	return response.Success(c, conv)
}

// SendText posts a text message on behalf of a websocket client.
func (h *ChatHandler) SendText(ctx context.Context, userID, conversationID, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return errors.Validation("content is required")
	}

	conv, role, err := h.participant(userID, conversationID)
	if err != nil {
		return err
	}

	_, err = h.post(ctx, userID, usecase.PostMessageInput{
		ConversationID: conv.ID,
		SenderRole:     role,
		Type:           entity.MessageText,
		Content:        content,
	})
	return err
}

func (h *ChatHandler) MarkConversationRead(ctx context.Context, userID, conversationID string) error {
	_, role, err := h.participant(userID, conversationID)
	if err != nil {
		return err
	}

	_, err = h.chatUseCase.MarkRead(ctx, conversationID, role)
	return err
}

// TypingRecipient returns the party opposite userID in the conversation.
func (h *ChatHandler) TypingRecipient(userID, conversationID string) (string, bool) {
	conv, role, err := h.participant(userID, conversationID)
	if err != nil {
		return "", false
	}
	if role == entity.SenderBuyer {
		return conv.SellerID, true
	}
	return conv.BuyerID, true
}

func (h *ChatHandler) post(ctx context.Context, userID string, input usecase.PostMessageInput) (entity.Message, error) {
	sender, ok := h.authUseCase.GetAccount(userID)
	if !ok {
		return entity.Message{}, errors.Unauthorized("Account no longer exists", nil)
	}
	input.SenderID = sender.ID
	input.SenderName = sender.Name

	msg, posted, err := h.chatUseCase.PostMessage(ctx, input)
	if err != nil {
		return entity.Message{}, err
	}
	if !posted {
		return entity.Message{}, errors.NotFound("Conversation", nil)
	}
	return msg, nil
}

// participant loads a conversation userID takes part in, with the side
// they are on.
func (h *ChatHandler) participant(userID, conversationID string) (entity.Conversation, entity.SenderRole, error) {
	conv, ok := h.chatUseCase.GetConversation(conversationID)
	if !ok {
		return entity.Conversation{}, "", errors.NotFound("Conversation", nil)
	}

	role := conv.ParticipantRole(userID)
	if role == "" {
		return entity.Conversation{}, "", errors.Forbidden("You are not a participant in this conversation", nil)
	}
	return conv, role, nil
}
