package usecase

import (
	"context"
	"fmt"
	"slices"

	"chatmarket/internal/domain/entity"
	"chatmarket/internal/domain/repository"
	"chatmarket/pkg/errors"
	"chatmarket/pkg/logger"
)

type CreateOrderInput struct {
	StorefrontID   string
	StorefrontName string
	BuyerID        string
	BuyerName      string
	SellerID       string
	Items          []entity.OrderItem
	Total          float64
	// Status and PaymentStatus default to pending and unpaid.
	Status         entity.OrderStatus
	PaymentStatus  entity.PaymentStatus
	PaymentMethod  string
	ConversationID string
}

// OrderPatch lists the fields a patch may change; nil fields are kept.
type OrderPatch struct {
	Status        *entity.OrderStatus   `json:"status"`
	PaymentStatus *entity.PaymentStatus `json:"paymentStatus"`
	PaymentMethod *string               `json:"paymentMethod"`
}

func (uc *CommerceUseCase) CreateOrder(ctx context.Context, input CreateOrderInput) (entity.Order, error) {
	status := input.Status
	if status == "" {
		status = entity.OrderPending
	}
	payment := input.PaymentStatus
	if payment == "" {
		payment = entity.PaymentUnpaid
	}
	if !status.Valid() || !payment.Valid() {
		return entity.Order{}, errors.Validation(fmt.Sprintf("invalid order status %q/%q", status, payment))
	}

	now := uc.now()
	order := entity.Order{
		ID:             newID("ORD-"),
		StorefrontID:   input.StorefrontID,
		StorefrontName: input.StorefrontName,
		BuyerID:        input.BuyerID,
		BuyerName:      input.BuyerName,
		SellerID:       input.SellerID,
		Items:          slices.Clone(input.Items),
		Total:          input.Total,
		Status:         status,
		PaymentStatus:  payment,
		PaymentMethod:  input.PaymentMethod,
		ConversationID: input.ConversationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if order.Items == nil {
		order.Items = []entity.OrderItem{}
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	next := append([]entity.Order{order}, uc.orders...)
	if err := commit(ctx, uc.orderStore, repository.KeyOrders, next, &uc.orders); err != nil {
		return entity.Order{}, err
	}

	logger.Info("Created order %s for storefront %s, total %.2f", order.ID, order.StorefrontID, order.Total)
	return order.Clone(), nil
}

// PatchOrder merges the set fields into the order and refreshes UpdatedAt.
// Any status may move to any other status; only unknown values are refused.
func (uc *CommerceUseCase) PatchOrder(ctx context.Context, id string, patch OrderPatch) (entity.Order, bool, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return entity.Order{}, false, errors.Validation("status must be one of: pending confirmed shipped delivered cancelled")
	}
	if patch.PaymentStatus != nil && !patch.PaymentStatus.Valid() {
		return entity.Order{}, false, errors.Validation("paymentstatus must be one of: unpaid paid refunded")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	i := indexOf(uc.orders, byOrderID(id))
	if i < 0 {
		return entity.Order{}, false, nil
	}

	order := uc.orders[i].Clone()
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if patch.PaymentStatus != nil {
		order.PaymentStatus = *patch.PaymentStatus
	}
	if patch.PaymentMethod != nil {
		order.PaymentMethod = *patch.PaymentMethod
	}
	order.UpdatedAt = uc.now()

	next := slices.Clone(uc.orders)
	next[i] = order
	if err := commit(ctx, uc.orderStore, repository.KeyOrders, next, &uc.orders); err != nil {
		return entity.Order{}, false, err
	}
	return order.Clone(), true, nil
}

func (uc *CommerceUseCase) GetOrder(id string) (entity.Order, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	i := indexOf(uc.orders, byOrderID(id))
	if i < 0 {
		return entity.Order{}, false
	}
	return uc.orders[i].Clone(), true
}

// OrdersForStorefront returns most recent first.
func (uc *CommerceUseCase) OrdersForStorefront(storefrontID string) []entity.Order {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return filter(uc.orders, func(o entity.Order) bool { return o.StorefrontID == storefrontID })
}

func (uc *CommerceUseCase) OrdersForBuyer(buyerID string) []entity.Order {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return filter(uc.orders, func(o entity.Order) bool { return o.BuyerID == buyerID })
}

func byOrderID(id string) func(entity.Order) bool {
	return func(o entity.Order) bool { return o.ID == id }
}
