package usecase

import (
	"context"
	"fmt"
	"sync"

	"chatmarket/internal/domain/entity"
	"chatmarket/internal/domain/service"
	"chatmarket/internal/infrastructure/metrics"
	"chatmarket/internal/infrastructure/websocket"
	"chatmarket/pkg/errors"
	"chatmarket/pkg/logger"
)

// AccountDirectory resolves display names for the other party of a chat.
type AccountDirectory interface {
	GetAccount(id string) (entity.Account, bool)
}

// CheckoutUseCase runs the workflows that touch the cart, orders and
// conversations together. Each workflow holds mu for its whole sequence.
type CheckoutUseCase struct {
	mu       sync.Mutex
	commerce *CommerceUseCase
	chat     *ChatUseCase
	accounts AccountDirectory
	payments PaymentProcessor
	notifier Notifier
}

func NewCheckoutUseCase(
	commerce *CommerceUseCase,
	chat *ChatUseCase,
	accounts AccountDirectory,
	payments PaymentProcessor,
	notifier Notifier,
) *CheckoutUseCase {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &CheckoutUseCase{
		commerce: commerce,
		chat:     chat,
		accounts: accounts,
		payments: payments,
		notifier: notifier,
	}
}

type CheckoutResult struct {
	Order        entity.Order        `json:"order"`
	Conversation entity.Conversation `json:"conversation"`
}

type PaymentInput struct {
	Method     service.PaymentMethod `json:"method" validate:"required,oneof=card bank upi"`
	CardNumber string                `json:"cardNumber"`
	CardExpiry string                `json:"cardExpiry"`
	CardCVV    string                `json:"cardCvv"`
}

// Checkout turns the buyer's cart lines for one storefront into a pending
// order announced in the buyer's conversation with that storefront, then
// empties the whole cart. It returns nil when the storefront is unknown or
// has nothing in the cart.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, buyer entity.Account, storefrontID string) (*CheckoutResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	storefront, ok := uc.commerce.GetStorefront(storefrontID)
	if !ok {
		return nil, nil
	}
	lines := uc.commerce.CartLinesForStorefront(storefrontID)
	if len(lines) == 0 {
		return nil, nil
	}

	conv, _, err := uc.resolveConversation(ctx, buyer, storefront)
	if err != nil {
		return nil, err
	}

	items, total := entity.OrderItemsFromCart(lines)
	order, err := uc.commerce.CreateOrder(ctx, CreateOrderInput{
		StorefrontID:   storefront.ID,
		StorefrontName: storefront.Name,
		BuyerID:        buyer.ID,
		BuyerName:      buyer.Name,
		SellerID:       storefront.SellerID,
		Items:          items,
		Total:          total,
		Status:         entity.OrderPending,
		PaymentStatus:  entity.PaymentUnpaid,
		ConversationID: conv.ID,
	})
	if err != nil {
		return nil, err
	}

	_, _, err = uc.chat.PostMessage(ctx, PostMessageInput{
		ConversationID: conv.ID,
		SenderID:       entity.SystemSenderID,
		SenderName:     entity.SystemSenderName,
		SenderRole:     entity.SenderSystem,
		Type:           entity.MessageOrderCard,
		Content:        fmt.Sprintf("New order %s · %s%.2f", order.ID, storefront.Currency, total),
		OrderCard: &entity.OrderCardPayload{
			OrderID:  order.ID,
			Total:    total,
			Currency: storefront.Currency,
		},
	})
	if err != nil {
		logger.LogOrderError(order.ID, "checkout", err)
		return nil, err
	}

	if _, err := uc.chat.LinkOrder(ctx, conv.ID, order.ID); err != nil {
		logger.LogOrderError(order.ID, "checkout", err)
		return nil, err
	}

	if err := uc.commerce.ClearCart(ctx); err != nil {
		logger.LogOrderError(order.ID, "checkout", err)
		return nil, err
	}

	metrics.RecordOrderCreated()

	conv, _ = uc.chat.GetConversation(conv.ID)
	return &CheckoutResult{Order: order, Conversation: conv}, nil
}

// OpenChat returns the buyer's conversation with a storefront, creating it
// with a welcome message on first contact. It reports false when the
// storefront is unknown.
func (uc *CheckoutUseCase) OpenChat(ctx context.Context, buyer entity.Account, storefrontID string) (entity.Conversation, bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	storefront, ok := uc.commerce.GetStorefront(storefrontID)
	if !ok {
		return entity.Conversation{}, false, nil
	}

	conv, created, err := uc.resolveConversation(ctx, buyer, storefront)
	if err != nil {
		return entity.Conversation{}, false, err
	}
	if !created {
		return conv, true, nil
	}

	_, _, err = uc.chat.PostMessage(ctx, PostMessageInput{
		ConversationID: conv.ID,
		SenderID:       entity.SystemSenderID,
		SenderName:     entity.SystemSenderName,
		SenderRole:     entity.SenderSystem,
		Type:           entity.MessageSystem,
		Content:        fmt.Sprintf("Welcome to %s! Ask us anything about our products.", storefront.Name),
	})
	if err != nil {
		return entity.Conversation{}, false, err
	}

	conv, _ = uc.chat.GetConversation(conv.ID)
	return conv, true, nil
}

// RespondToOrder confirms or declines an order and posts a notice into its
// conversation. The current status is not checked.
func (uc *CheckoutUseCase) RespondToOrder(ctx context.Context, orderID string, accept bool) (entity.Order, bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	status := entity.OrderCancelled
	notice := fmt.Sprintf("Order %s was declined.", orderID)
	if accept {
		status = entity.OrderConfirmed
		notice = fmt.Sprintf("Order %s has been confirmed by the seller!", orderID)
	}

	order, found, err := uc.commerce.PatchOrder(ctx, orderID, OrderPatch{Status: &status})
	if err != nil || !found {
		return entity.Order{}, found, err
	}

	_, _, err = uc.chat.PostMessage(ctx, PostMessageInput{
		ConversationID: order.ConversationID,
		SenderID:       entity.SystemSenderID,
		SenderName:     entity.SystemSenderName,
		SenderRole:     entity.SenderSystem,
		Type:           entity.MessageSystem,
		Content:        notice,
	})
	if err != nil {
		logger.LogOrderError(order.ID, "respond", err)
		return entity.Order{}, true, err
	}

	metrics.RecordOrderResponse(accept)
	uc.notifyOrder(order)
	return order, true, nil
}

// UpdateOrderStatus moves an order to any status, e.g. shipped or delivered,
// and tells both parties.
func (uc *CheckoutUseCase) UpdateOrderStatus(ctx context.Context, orderID string, status entity.OrderStatus) (entity.Order, bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	order, found, err := uc.commerce.PatchOrder(ctx, orderID, OrderPatch{Status: &status})
	if err != nil || !found {
		return entity.Order{}, found, err
	}

	uc.notifyOrder(order)
	return order, true, nil
}

// PayOrder settles an order through the payment processor, marks it paid
// and confirms it if it was still pending. Orders that are already paid are
// refused.
func (uc *CheckoutUseCase) PayOrder(ctx context.Context, orderID string, input PaymentInput) (entity.Order, bool, error) {
	if err := validateInput(input); err != nil {
		return entity.Order{}, false, err
	}

	order, found := uc.commerce.GetOrder(orderID)
	if !found {
		return entity.Order{}, false, nil
	}
	if order.PaymentStatus == entity.PaymentPaid {
		return entity.Order{}, true, errors.Conflict("Order is already paid")
	}

	// The processor may sleep; run it outside the workflow lock.
	result, err := uc.payments.Process(ctx, service.PaymentRequest{
		OrderID:    order.ID,
		Amount:     order.Total,
		Method:     input.Method,
		CardNumber: input.CardNumber,
		CardExpiry: input.CardExpiry,
		CardCVV:    input.CardCVV,
	})
	metrics.RecordPayment(string(input.Method), err)
	if err != nil {
		logger.LogOrderError(order.ID, "pay", err)
		return entity.Order{}, true, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	order, found = uc.commerce.GetOrder(orderID)
	if !found {
		return entity.Order{}, false, nil
	}
	// A concurrent payment may have settled while the processor ran.
	if order.PaymentStatus == entity.PaymentPaid {
		return entity.Order{}, true, errors.Conflict("Order is already paid")
	}

	paid := entity.PaymentPaid
	patch := OrderPatch{PaymentStatus: &paid, PaymentMethod: &result.MethodLabel}
	if order.Status == entity.OrderPending {
		confirmed := entity.OrderConfirmed
		patch.Status = &confirmed
	}

	order, _, err = uc.commerce.PatchOrder(ctx, orderID, patch)
	if err != nil {
		return entity.Order{}, true, err
	}

	currency := uc.currencyFor(order.StorefrontID)
	_, _, err = uc.chat.PostMessage(ctx, PostMessageInput{
		ConversationID: order.ConversationID,
		SenderID:       entity.SystemSenderID,
		SenderName:     entity.SystemSenderName,
		SenderRole:     entity.SenderSystem,
		Type:           entity.MessagePaymentComplete,
		Content:        fmt.Sprintf("Payment of %s%.2f received via %s", currency, order.Total, result.MethodLabel),
		PaymentReceipt: &entity.PaymentReceiptPayload{
			OrderID: order.ID,
			Amount:  order.Total,
			Method:  result.MethodLabel,
		},
	})
	if err != nil {
		logger.LogOrderError(order.ID, "pay", err)
		return entity.Order{}, true, err
	}

	uc.notifyOrder(order)
	return order, true, nil
}

// RequestPayment has the seller post a payment request card for an order.
func (uc *CheckoutUseCase) RequestPayment(ctx context.Context, seller entity.Account, orderID string) (entity.Message, bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	order, found := uc.commerce.GetOrder(orderID)
	if !found {
		return entity.Message{}, false, nil
	}

	currency := uc.currencyFor(order.StorefrontID)
	msg, posted, err := uc.chat.PostMessage(ctx, PostMessageInput{
		ConversationID: order.ConversationID,
		SenderID:       seller.ID,
		SenderName:     seller.Name,
		SenderRole:     entity.SenderSeller,
		Type:           entity.MessagePaymentRequest,
		Content:        fmt.Sprintf("Payment request for order %s: %s%.2f", order.ID, currency, order.Total),
		PaymentRequest: &entity.PaymentRequestPayload{
			OrderID:  order.ID,
			Amount:   order.Total,
			Currency: currency,
		},
	})
	if err != nil || !posted {
		return entity.Message{}, posted, err
	}
	return msg, true, nil
}

// resolveConversation finds the buyer's thread with the storefront or
// creates it, reporting whether it was created.
func (uc *CheckoutUseCase) resolveConversation(ctx context.Context, buyer entity.Account, storefront entity.Storefront) (entity.Conversation, bool, error) {
	if conv, ok := uc.chat.FindByParties(buyer.ID, storefront.ID); ok {
		return conv, false, nil
	}

	sellerName := storefront.Name
	if uc.accounts != nil {
		if seller, ok := uc.accounts.GetAccount(storefront.SellerID); ok {
			sellerName = seller.Name
		}
	}

	conv, err := uc.chat.CreateConversation(ctx, CreateConversationInput{
		StorefrontID:   storefront.ID,
		StorefrontName: storefront.Name,
		BuyerID:        buyer.ID,
		BuyerName:      buyer.Name,
		SellerID:       storefront.SellerID,
		SellerName:     sellerName,
	})
	if err != nil {
		return entity.Conversation{}, false, err
	}
	return conv, true, nil
}

func (uc *CheckoutUseCase) currencyFor(storefrontID string) string {
	if storefront, ok := uc.commerce.GetStorefront(storefrontID); ok && storefront.Currency != "" {
		return storefront.Currency
	}
	return "$"
}

func (uc *CheckoutUseCase) notifyOrder(order entity.Order) {
	uc.notifier.Notify(order.BuyerID, websocket.EventOrderUpdated, order)
	uc.notifier.Notify(order.SellerID, websocket.EventOrderUpdated, order)
}
