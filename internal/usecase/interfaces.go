package usecase

import (
	"context"

	"chatmarket/internal/domain/entity"
	"chatmarket/internal/domain/service"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(hash, password string) bool
}

type TokenIssuer interface {
	Issue(account entity.Account) (string, error)
}

// Notifier pushes realtime events to a signed-in account
type Notifier interface {
	Notify(userID string, eventType string, data interface{})
}

type PaymentProcessor interface {
	Process(ctx context.Context, req service.PaymentRequest) (*service.PaymentResult, error)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, string, interface{}) {}
