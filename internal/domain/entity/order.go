package entity

import (
	"slices"
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentUnpaid || s == PaymentPaid || s == PaymentRefunded
}

type OrderItem struct {
	ListingID string  `json:"productId"`
	Name      string  `json:"productName"`
	Image     string  `json:"productImage"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Variant   string  `json:"variant,omitempty"`
}

type Order struct {
	ID             string        `json:"id"`
	StorefrontID   string        `json:"storeId"`
	StorefrontName string        `json:"storeName"`
	BuyerID        string        `json:"buyerId"`
	BuyerName      string        `json:"buyerName"`
	SellerID       string        `json:"sellerId"`
	Items          []OrderItem   `json:"items"`
	Total          float64       `json:"total"`
	Status         OrderStatus   `json:"status"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	PaymentMethod  string        `json:"paymentMethod"`
	ConversationID string        `json:"conversationId"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

func (o Order) Clone() Order {
	o.Items = slices.Clone(o.Items)
	return o
}

// OrderItemsFromCart converts cart lines into order line snapshots and
// returns their total.
func OrderItemsFromCart(lines []CartLine) ([]OrderItem, float64) {
	items := make([]OrderItem, 0, len(lines))
	var total float64
	for _, l := range lines {
		items = append(items, OrderItem{
			ListingID: l.ListingID,
			Name:      l.Name,
			Image:     l.Image,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Variant:   l.Variant,
		})
		total += l.Subtotal()
	}
	return items, total
}
