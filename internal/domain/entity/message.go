package entity

import (
	"fmt"
	"time"
)

type SenderRole string

const (
	SenderBuyer  SenderRole = "buyer"
	SenderSeller SenderRole = "seller"
	SenderSystem SenderRole = "system"
)

func (r SenderRole) Valid() bool {
	return r == SenderBuyer || r == SenderSeller || r == SenderSystem
}

type MessageType string

const (
	MessageText            MessageType = "text"
	MessageOrderCard       MessageType = "order_card"
	MessagePaymentRequest  MessageType = "payment_request"
	MessagePaymentComplete MessageType = "payment_complete"
	MessageProductCard     MessageType = "product_card"
	MessageSystem          MessageType = "system"
)

const (
	SystemSenderID   = "system"
	SystemSenderName = "System"
)

type OrderCardPayload struct {
	OrderID  string  `json:"orderId"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

type PaymentRequestPayload struct {
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type PaymentReceiptPayload struct {
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount"`
	Method  string  `json:"method"`
}

type ProductCardPayload struct {
	ListingID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
}

// Message payloads form a closed set: only the field matching Type may be
// set, and text/system messages carry none.
type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversationId"`
	SenderID       string      `json:"senderId"`
	SenderName     string      `json:"senderName"`
	SenderRole     SenderRole  `json:"senderRole"`
	Type           MessageType `json:"type"`
	Content        string      `json:"content"`
	Timestamp      time.Time   `json:"timestamp"`
	Read           bool        `json:"isRead"`

	OrderCard      *OrderCardPayload      `json:"orderCard,omitempty"`
	PaymentRequest *PaymentRequestPayload `json:"paymentRequest,omitempty"`
	PaymentReceipt *PaymentReceiptPayload `json:"paymentReceipt,omitempty"`
	ProductCard    *ProductCardPayload    `json:"productCard,omitempty"`
}

func (m Message) Validate() error {
	if !m.SenderRole.Valid() {
		return fmt.Errorf("unknown sender role %q", m.SenderRole)
	}

	set := 0
	for _, present := range []bool{m.OrderCard != nil, m.PaymentRequest != nil, m.PaymentReceipt != nil, m.ProductCard != nil} {
		if present {
			set++
		}
	}

	var want bool
	switch m.Type {
	case MessageText, MessageSystem:
		return expectNone(m.Type, set)
	case MessageOrderCard:
		want = m.OrderCard != nil
	case MessagePaymentRequest:
		want = m.PaymentRequest != nil
	case MessagePaymentComplete:
		want = m.PaymentReceipt != nil
	case MessageProductCard:
		want = m.ProductCard != nil
	default:
		return fmt.Errorf("unknown message type %q", m.Type)
	}

	if !want || set != 1 {
		return fmt.Errorf("message type %q needs exactly its own payload", m.Type)
	}
	return nil
}

func expectNone(t MessageType, set int) error {
	if set != 0 {
		return fmt.Errorf("message type %q carries no payload", t)
	}
	return nil
}

// Preview is the conversation list summary shown for a message.
func (m Message) Preview() string {
	switch m.Type {
	case MessageText, MessageSystem:
		return m.Content
	case MessageOrderCard:
		return "New order placed"
	case MessagePaymentComplete:
		return "Payment received"
	default:
		return "Sent an attachment"
	}
}
