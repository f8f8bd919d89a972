package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chatmarket/pkg/errors"
	"chatmarket/pkg/logger"
)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentBank PaymentMethod = "bank"
	PaymentUPI  PaymentMethod = "upi"
)

// PaymentRequest represents a payment attempt for one order
type PaymentRequest struct {
	OrderID    string
	Amount     float64
	Method     PaymentMethod
	CardNumber string
	CardExpiry string
	CardCVV    string
}

// PaymentResult represents a settled payment
type PaymentResult struct {
	OrderID     string
	Amount      float64
	MethodLabel string
	ProcessedAt time.Time
}

// PaymentService settles order payments
type PaymentService interface {
	Process(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}

// SimulatedPaymentService accepts every well-formed request after a fixed
// processing delay. No money moves.
type SimulatedPaymentService struct {
	delay time.Duration
	now   func() time.Time
}

func NewSimulatedPaymentService(delay time.Duration) *SimulatedPaymentService {
	return &SimulatedPaymentService{
		delay: delay,
		now:   time.Now,
	}
}

func (s *SimulatedPaymentService) Process(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	label, err := MethodLabel(req)
	if err != nil {
		return nil, err
	}

	logger.Debug("Processing simulated payment for order %s, amount %.2f via %s", req.OrderID, req.Amount, label)

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &PaymentResult{
		OrderID:     req.OrderID,
		Amount:      req.Amount,
		MethodLabel: label,
		ProcessedAt: s.now().UTC().Truncate(time.Millisecond),
	}, nil
}

// MethodLabel validates the method details and returns the label shown on
// receipts, e.g. "Visa ****4242".
func MethodLabel(req PaymentRequest) (string, error) {
	switch req.Method {
	case PaymentCard:
		digits := strings.ReplaceAll(req.CardNumber, " ", "")
		if len(digits) < 13 {
			return "", errors.Validation("Please enter a valid card number")
		}
		if len(req.CardExpiry) < 4 {
			return "", errors.Validation("Please enter expiry date")
		}
		if len(req.CardCVV) < 3 {
			return "", errors.Validation("Please enter CVV")
		}
		return fmt.Sprintf("Visa ****%s", digits[len(digits)-4:]), nil
	case PaymentBank:
		return "Bank Transfer", nil
	case PaymentUPI:
		return "UPI", nil
	default:
		return "", errors.Validation(fmt.Sprintf("Unknown payment method %q", req.Method))
	}
}
