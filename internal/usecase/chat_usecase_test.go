package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "chatmarket/internal/adapter/repository"
	"chatmarket/internal/domain/entity"
	"chatmarket/internal/domain/repository"
	"chatmarket/internal/infrastructure/websocket"
	"chatmarket/pkg/errors"
)

func newConversation(t *testing.T, h *harness, buyerID, storefrontID string) entity.Conversation {
	t.Helper()
	conv, err := h.chat.CreateConversation(context.Background(), CreateConversationInput{
		StorefrontID:   storefrontID,
		StorefrontName: "Store " + storefrontID,
		BuyerID:        buyerID,
		BuyerName:      "Buyer " + buyerID,
		SellerID:       DemoSellerID,
		SellerName:     "Alex Rivera",
	})
	require.NoError(t, err)
	return conv
}

func post(t *testing.T, h *harness, convID string, role entity.SenderRole, content string) entity.Message {
	t.Helper()
	senderID := map[entity.SenderRole]string{
		entity.SenderBuyer:  DemoBuyerID,
		entity.SenderSeller: DemoSellerID,
		entity.SenderSystem: entity.SystemSenderID,
	}[role]

	msgType := entity.MessageText
	if role == entity.SenderSystem {
		msgType = entity.MessageSystem
	}

	msg, posted, err := h.chat.PostMessage(context.Background(), PostMessageInput{
		ConversationID: convID,
		SenderID:       senderID,
		SenderName:     string(role),
		SenderRole:     role,
		Type:           msgType,
		Content:        content,
	})
	require.NoError(t, err)
	require.True(t, posted)
	return msg
}

func TestChatUseCase_CreateConversation(t *testing.T) {
	h := newHarness(t)

	conv := newConversation(t, h, DemoBuyerID, "store-001")
	assert.Contains(t, conv.ID, "conv-")
	assert.Empty(t, conv.LastMessage)
	assert.Zero(t, conv.UnreadBuyer)
	assert.Zero(t, conv.UnreadSeller)

	found, ok := h.chat.FindByParties(DemoBuyerID, "store-001")
	require.True(t, ok)
	assert.Equal(t, conv, found)

	_, ok = h.chat.FindByParties(DemoBuyerID, "store-002")
	assert.False(t, ok)
}

func TestChatUseCase_PostMessageUnreadCounters(t *testing.T) {
	tests := []struct {
		role         entity.SenderRole
		unreadBuyer  int
		unreadSeller int
	}{
		{entity.SenderBuyer, 0, 1},
		{entity.SenderSeller, 1, 0},
		{entity.SenderSystem, 1, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			h := newHarness(t)
			conv := newConversation(t, h, DemoBuyerID, "store-001")

			msg := post(t, h, conv.ID, tt.role, "hello there")
			assert.Contains(t, msg.ID, "msg-")
			assert.False(t, msg.Read)

			got, _ := h.chat.GetConversation(conv.ID)
			assert.Equal(t, tt.unreadBuyer, got.UnreadBuyer)
			assert.Equal(t, tt.unreadSeller, got.UnreadSeller)
			assert.Equal(t, "hello there", got.LastMessage)
			assert.Equal(t, msg.Timestamp, got.LastMessageAt)
		})
	}
}

func TestChatUseCase_PostMessagePreview(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	conv := newConversation(t, h, DemoBuyerID, "store-001")

	tests := []struct {
		input PostMessageInput
		want  string
	}{
		{PostMessageInput{Type: entity.MessageOrderCard, SenderRole: entity.SenderSystem, OrderCard: &entity.OrderCardPayload{OrderID: "ORD-1"}}, "New order placed"},
		{PostMessageInput{Type: entity.MessagePaymentComplete, SenderRole: entity.SenderSystem, PaymentReceipt: &entity.PaymentReceiptPayload{OrderID: "ORD-1"}}, "Payment received"},
		{PostMessageInput{Type: entity.MessageProductCard, SenderRole: entity.SenderSeller, ProductCard: &entity.ProductCardPayload{ListingID: "prod-001"}}, "Sent an attachment"},
		{PostMessageInput{Type: entity.MessagePaymentRequest, SenderRole: entity.SenderSeller, PaymentRequest: &entity.PaymentRequestPayload{OrderID: "ORD-1"}}, "Sent an attachment"},
	}

	for _, tt := range tests {
		t.Run(string(tt.input.Type), func(t *testing.T) {
			tt.input.ConversationID = conv.ID
			_, posted, err := h.chat.PostMessage(ctx, tt.input)
			require.NoError(t, err)
			require.True(t, posted)

			got, _ := h.chat.GetConversation(conv.ID)
			assert.Equal(t, tt.want, got.LastMessage)
		})
	}
}

func TestChatUseCase_PostMessageRejectsMismatchedPayload(t *testing.T) {
	h := newHarness(t)
	conv := newConversation(t, h, DemoBuyerID, "store-001")

	_, _, err := h.chat.PostMessage(context.Background(), PostMessageInput{
		ConversationID: conv.ID,
		SenderRole:     entity.SenderBuyer,
		Type:           entity.MessageText,
		Content:        "hi",
		OrderCard:      &entity.OrderCardPayload{OrderID: "ORD-1"},
	})
	assert.True(t, errors.Is(err, errors.CodeValidation))
	assert.Empty(t, h.chat.MessagesFor(conv.ID))
}

func TestChatUseCase_PostMessageUnknownConversation(t *testing.T) {
	h := newHarness(t)

	_, posted, err := h.chat.PostMessage(context.Background(), PostMessageInput{
		ConversationID: "conv-missing",
		SenderRole:     entity.SenderBuyer,
		Type:           entity.MessageText,
		Content:        "anyone?",
	})
	require.NoError(t, err)
	assert.False(t, posted)
	assert.Empty(t, h.chat.MessagesFor("conv-missing"))
}

func TestChatUseCase_PostMessageNotifiesBothParties(t *testing.T) {
	h := newHarness(t)
	conv := newConversation(t, h, DemoBuyerID, "store-001")

	post(t, h, conv.ID, entity.SenderBuyer, "is this in stock?")

	assert.Equal(t, 1, h.notifier.count(DemoBuyerID, websocket.EventNewMessage))
	assert.Equal(t, 1, h.notifier.count(DemoSellerID, websocket.EventNewMessage))
}

func TestChatUseCase_MarkRead(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	conv := newConversation(t, h, DemoBuyerID, "store-001")

	post(t, h, conv.ID, entity.SenderBuyer, "hi")
	post(t, h, conv.ID, entity.SenderSeller, "hello")
	post(t, h, conv.ID, entity.SenderSystem, "notice")
	post(t, h, conv.ID, entity.SenderSeller, "anything else?")

	other := newConversation(t, h, "buyer-other", "store-001")
	post(t, h, other.ID, entity.SenderSeller, "unrelated")

	read, err := h.chat.MarkRead(ctx, conv.ID, entity.SenderBuyer)
	require.NoError(t, err)
	assert.True(t, read)

	got, _ := h.chat.GetConversation(conv.ID)
	assert.Zero(t, got.UnreadBuyer)
	assert.Equal(t, 2, got.UnreadSeller)

	for _, m := range h.chat.MessagesFor(conv.ID) {
		assert.Equal(t, m.SenderRole != entity.SenderBuyer, m.Read, "message %q", m.Content)
	}
	for _, m := range h.chat.MessagesFor(other.ID) {
		assert.False(t, m.Read)
	}

	assert.Equal(t, 1, h.notifier.count(DemoSellerID, websocket.EventConversationRead))

	_, err = h.chat.MarkRead(ctx, conv.ID, entity.SenderSystem)
	assert.True(t, errors.Is(err, errors.CodeValidation))

	read, err = h.chat.MarkRead(ctx, "conv-missing", entity.SenderSeller)
	require.NoError(t, err)
	assert.False(t, read)
}

func TestChatUseCase_Ordering(t *testing.T) {
	h := newHarness(t)

	first := newConversation(t, h, DemoBuyerID, "store-001")
	second := newConversation(t, h, DemoBuyerID, "store-002")
	third := newConversation(t, h, DemoBuyerID, "store-003")

	post(t, h, second.ID, entity.SenderBuyer, "one")
	post(t, h, first.ID, entity.SenderBuyer, "two")
	post(t, h, first.ID, entity.SenderSeller, "three")

	convs := h.chat.ConversationsFor(DemoBuyerID, entity.RoleBuyer)
	require.Len(t, convs, 3)
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, []string{convs[0].ID, convs[1].ID, convs[2].ID})

	msgs := h.chat.MessagesFor(first.ID)
	require.Len(t, msgs, 2)
	assert.Equal(t, "two", msgs[0].Content)
	assert.Equal(t, "three", msgs[1].Content)

	assert.Len(t, h.chat.ConversationsFor(DemoSellerID, entity.RoleSeller), 3)
	assert.Empty(t, h.chat.ConversationsFor(DemoSellerID, entity.RoleBuyer))
}

func TestChatUseCase_UnreadCount(t *testing.T) {
	h := newHarness(t)

	a := newConversation(t, h, DemoBuyerID, "store-001")
	b := newConversation(t, h, DemoBuyerID, "store-002")

	post(t, h, a.ID, entity.SenderSeller, "x")
	post(t, h, b.ID, entity.SenderSeller, "y")
	post(t, h, b.ID, entity.SenderBuyer, "z")

	assert.Equal(t, 2, h.chat.UnreadCount(DemoBuyerID, entity.RoleBuyer))
	assert.Equal(t, 1, h.chat.UnreadCount(DemoSellerID, entity.RoleSeller))
	assert.Zero(t, h.chat.UnreadCount("buyer-other", entity.RoleBuyer))
}

func TestChatUseCase_LinkOrder(t *testing.T) {
	h := newHarness(t)
	conv := newConversation(t, h, DemoBuyerID, "store-001")

	linked, err := h.chat.LinkOrder(context.Background(), conv.ID, "ORD-42")
	require.NoError(t, err)
	assert.True(t, linked)

	got, _ := h.chat.GetConversation(conv.ID)
	assert.Equal(t, "ORD-42", got.OrderID)

	linked, err = h.chat.LinkOrder(context.Background(), "conv-missing", "ORD-42")
	require.NoError(t, err)
	assert.False(t, linked)
}

func TestChatUseCase_PostMessageKeepsCollectionsInStep(t *testing.T) {
	store := &flakyStore{KeyValueStore: adapter.NewMemoryStore()}
	h := newHarnessOn(t, store, true)
	conv := newConversation(t, h, DemoBuyerID, "store-001")

	store.failOn(repository.KeyConversations)
	_, _, err := h.chat.PostMessage(context.Background(), PostMessageInput{
		ConversationID: conv.ID,
		SenderID:       DemoBuyerID,
		SenderName:     "Sarah Chen",
		SenderRole:     entity.SenderBuyer,
		Type:           entity.MessageText,
		Content:        "Is this in stock?",
	})
	require.Error(t, err)

	assert.Empty(t, h.chat.MessagesFor(conv.ID))
	current, _ := h.chat.GetConversation(conv.ID)
	assert.Equal(t, 0, current.UnreadSeller)

	store.failOn("")
	reloaded := newHarnessOn(t, store, true)
	assert.Empty(t, reloaded.chat.MessagesFor(conv.ID))
	stored, ok := reloaded.chat.GetConversation(conv.ID)
	require.True(t, ok)
	assert.Equal(t, 0, stored.UnreadSeller)
}

func TestChatUseCase_MarkReadKeepsCollectionsInStep(t *testing.T) {
	store := &flakyStore{KeyValueStore: adapter.NewMemoryStore()}
	h := newHarnessOn(t, store, true)
	conv := newConversation(t, h, DemoBuyerID, "store-001")
	post(t, h, conv.ID, entity.SenderSeller, "We ship tomorrow")

	store.failOn(repository.KeyMessages)
	_, err := h.chat.MarkRead(context.Background(), conv.ID, entity.SenderBuyer)
	require.Error(t, err)

	current, _ := h.chat.GetConversation(conv.ID)
	assert.Equal(t, 1, current.UnreadBuyer)

	store.failOn("")
	reloaded := newHarnessOn(t, store, true)
	stored, ok := reloaded.chat.GetConversation(conv.ID)
	require.True(t, ok)
	assert.Equal(t, 1, stored.UnreadBuyer)
	msgs := reloaded.chat.MessagesFor(conv.ID)
	require.Len(t, msgs, 1)
	assert.False(t, msgs[0].Read)
}
