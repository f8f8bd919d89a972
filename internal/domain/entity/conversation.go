package entity

import "time"

// Conversation is the single chat thread between one buyer and one
// storefront.
type Conversation struct {
	ID             string    `json:"id"`
	StorefrontID   string    `json:"storeId"`
	StorefrontName string    `json:"storeName"`
	BuyerID        string    `json:"buyerId"`
	BuyerName      string    `json:"buyerName"`
	SellerID       string    `json:"sellerId"`
	SellerName     string    `json:"sellerName"`
	LastMessage    string    `json:"lastMessage"`
	LastMessageAt  time.Time `json:"lastMessageAt"`
	UnreadBuyer    int       `json:"unreadBuyer"`
	UnreadSeller   int       `json:"unreadSeller"`
	OrderID        string    `json:"orderId,omitempty"`
}

func (c Conversation) HasParticipant(userID string) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

// ParticipantRole returns the side userID sits on, or "" if it is not a party.
func (c Conversation) ParticipantRole(userID string) SenderRole {
	switch userID {
	case c.BuyerID:
		return SenderBuyer
	case c.SellerID:
		return SenderSeller
	}
	return ""
}
