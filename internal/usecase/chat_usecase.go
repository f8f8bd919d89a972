package usecase

import (
	"context"
	"slices"
	"sync"

	"chatmarket/internal/domain/entity"
	"chatmarket/internal/domain/repository"
	"chatmarket/internal/infrastructure/metrics"
	"chatmarket/internal/infrastructure/websocket"
	"chatmarket/pkg/errors"
	"chatmarket/pkg/logger"
)

// ChatUseCase owns conversations and their messages.
type ChatUseCase struct {
	mu            sync.RWMutex
	conversations []entity.Conversation
	messages      []entity.Message

	conversationStore repository.Snapshot[[]entity.Conversation]
	messageStore      repository.Snapshot[[]entity.Message]
	notifier          Notifier
	now               Clock
}

func NewChatUseCase(
	conversationStore repository.Snapshot[[]entity.Conversation],
	messageStore repository.Snapshot[[]entity.Message],
	notifier Notifier,
) *ChatUseCase {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &ChatUseCase{
		conversationStore: conversationStore,
		messageStore:      messageStore,
		notifier:          notifier,
		now:               SystemClock,
	}
}

func (uc *ChatUseCase) WithClock(clock Clock) *ChatUseCase {
	uc.now = clock
	return uc
}

type CreateConversationInput struct {
	StorefrontID   string
	StorefrontName string
	BuyerID        string
	BuyerName      string
	SellerID       string
	SellerName     string
	OrderID        string
}

type PostMessageInput struct {
	ConversationID string
	SenderID       string
	SenderName     string
	SenderRole     entity.SenderRole
	Type           entity.MessageType
	Content        string

	OrderCard      *entity.OrderCardPayload
	PaymentRequest *entity.PaymentRequestPayload
	PaymentReceipt *entity.PaymentReceiptPayload
	ProductCard    *entity.ProductCardPayload
}

// MessageEvent is pushed to both parties when a message lands.
type MessageEvent struct {
	Message      entity.Message      `json:"message"`
	Conversation entity.Conversation `json:"conversation"`
}

func (uc *ChatUseCase) Init(ctx context.Context) error {
	conversations, _, err := uc.conversationStore.Load(ctx)
	if err != nil {
		return err
	}
	messages, _, err := uc.messageStore.Load(ctx)
	if err != nil {
		return err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.conversations = conversations
	uc.messages = messages

	logger.Info("Loaded %d conversations, %d messages", len(conversations), len(messages))
	return nil
}

func (uc *ChatUseCase) GetConversation(id string) (entity.Conversation, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	i := indexOf(uc.conversations, byConversationID(id))
	if i < 0 {
		return entity.Conversation{}, false
	}
	return uc.conversations[i], true
}

// FindByParties returns the thread between buyerID and storefrontID, if any.
func (uc *ChatUseCase) FindByParties(buyerID, storefrontID string) (entity.Conversation, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	i := indexOf(uc.conversations, func(c entity.Conversation) bool {
		return c.BuyerID == buyerID && c.StorefrontID == storefrontID
	})
	if i < 0 {
		return entity.Conversation{}, false
	}
	return uc.conversations[i], true
}

func (uc *ChatUseCase) CreateConversation(ctx context.Context, input CreateConversationInput) (entity.Conversation, error) {
	conversation := entity.Conversation{
		ID:             newID("conv-"),
		StorefrontID:   input.StorefrontID,
		StorefrontName: input.StorefrontName,
		BuyerID:        input.BuyerID,
		BuyerName:      input.BuyerName,
		SellerID:       input.SellerID,
		SellerName:     input.SellerName,
		LastMessage:    "",
		LastMessageAt:  uc.now(),
		OrderID:        input.OrderID,
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	next := append(slices.Clone(uc.conversations), conversation)
	if err := commit(ctx, uc.conversationStore, repository.KeyConversations, next, &uc.conversations); err != nil {
		return entity.Conversation{}, err
	}
	return conversation, nil
}

// LinkOrder records the latest order placed in a conversation.
func (uc *ChatUseCase) LinkOrder(ctx context.Context, conversationID, orderID string) (bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	i := indexOf(uc.conversations, byConversationID(conversationID))
	if i < 0 {
		return false, nil
	}

	next := slices.Clone(uc.conversations)
	next[i].OrderID = orderID
	if err := commit(ctx, uc.conversationStore, repository.KeyConversations, next, &uc.conversations); err != nil {
		return false, err
	}
	return true, nil
}

// PostMessage appends a message and updates the parent conversation's
// preview and unread counters: the side that did not send it gains one
// unread, and system messages count for both sides. It reports false when
// the conversation does not exist.
func (uc *ChatUseCase) PostMessage(ctx context.Context, input PostMessageInput) (entity.Message, bool, error) {
	msg := entity.Message{
		ID:             newID("msg-"),
		ConversationID: input.ConversationID,
		SenderID:       input.SenderID,
		SenderName:     input.SenderName,
		SenderRole:     input.SenderRole,
		Type:           input.Type,
		Content:        input.Content,
		Read:           false,
		OrderCard:      input.OrderCard,
		PaymentRequest: input.PaymentRequest,
		PaymentReceipt: input.PaymentReceipt,
		ProductCard:    input.ProductCard,
	}
	if err := msg.Validate(); err != nil {
		return entity.Message{}, false, errors.Validation(err.Error())
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	i := indexOf(uc.conversations, byConversationID(input.ConversationID))
	if i < 0 {
		return entity.Message{}, false, nil
	}

	msg.Timestamp = uc.now()

	conversations := slices.Clone(uc.conversations)
	conv := &conversations[i]
	conv.LastMessage = msg.Preview()
	conv.LastMessageAt = msg.Timestamp
	switch msg.SenderRole {
	case entity.SenderBuyer:
		conv.UnreadSeller++
	case entity.SenderSeller:
		conv.UnreadBuyer++
	case entity.SenderSystem:
		conv.UnreadBuyer++
		conv.UnreadSeller++
	}

	messages := append(slices.Clone(uc.messages), msg)
	if err := commitBoth(ctx,
		uc.messageStore, repository.KeyMessages, messages, &uc.messages,
		uc.conversationStore, repository.KeyConversations, conversations, &uc.conversations,
	); err != nil {
		return entity.Message{}, false, err
	}

	metrics.RecordMessage(string(msg.Type))

	event := MessageEvent{Message: msg, Conversation: *conv}
	uc.notifier.Notify(conv.BuyerID, websocket.EventNewMessage, event)
	uc.notifier.Notify(conv.SellerID, websocket.EventNewMessage, event)

	return msg, true, nil
}

// MarkRead zeroes role's unread counter and marks read every message in the
// conversation sent by someone other than role.
func (uc *ChatUseCase) MarkRead(ctx context.Context, conversationID string, role entity.SenderRole) (bool, error) {
	if role != entity.SenderBuyer && role != entity.SenderSeller {
		return false, errors.Validation("role must be one of: buyer seller")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	i := indexOf(uc.conversations, byConversationID(conversationID))
	if i < 0 {
		return false, nil
	}

	conversations := slices.Clone(uc.conversations)
	conv := &conversations[i]
	if role == entity.SenderBuyer {
		conv.UnreadBuyer = 0
	} else {
		conv.UnreadSeller = 0
	}

	messages := slices.Clone(uc.messages)
	for j := range messages {
		if messages[j].ConversationID == conversationID && messages[j].SenderRole != role {
			messages[j].Read = true
		}
	}

	if err := commitBoth(ctx,
		uc.conversationStore, repository.KeyConversations, conversations, &uc.conversations,
		uc.messageStore, repository.KeyMessages, messages, &uc.messages,
	); err != nil {
		return false, err
	}

	other := conv.SellerID
	if role == entity.SenderSeller {
		other = conv.BuyerID
	}
	uc.notifier.Notify(other, websocket.EventConversationRead, *conv)

	return true, nil
}

// MessagesFor returns the conversation's messages oldest first. Messages
// with equal timestamps keep their posting order.
func (uc *ChatUseCase) MessagesFor(conversationID string) []entity.Message {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	out := []entity.Message{}
	for _, m := range uc.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b entity.Message) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return out
}

// ConversationsFor lists userID's conversations on the given side, most
// recently active first.
func (uc *ChatUseCase) ConversationsFor(userID string, role entity.Role) []entity.Conversation {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	out := []entity.Conversation{}
	for _, c := range uc.conversations {
		if onSide(c, userID, role) {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b entity.Conversation) int {
		return b.LastMessageAt.Compare(a.LastMessageAt)
	})
	return out
}

// UnreadCount sums userID's unread counters across conversations.
func (uc *ChatUseCase) UnreadCount(userID string, role entity.Role) int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	total := 0
	for _, c := range uc.conversations {
		if !onSide(c, userID, role) {
			continue
		}
		if role == entity.RoleBuyer {
			total += c.UnreadBuyer
		} else {
			total += c.UnreadSeller
		}
	}
	return total
}

func onSide(c entity.Conversation, userID string, role entity.Role) bool {
	if role == entity.RoleBuyer {
		return c.BuyerID == userID
	}
	return c.SellerID == userID
}

func byConversationID(id string) func(entity.Conversation) bool {
	return func(c entity.Conversation) bool { return c.ID == id }
}
