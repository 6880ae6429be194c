package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
)

// PaymentResult is the outcome of a processed payment.
type PaymentResult struct {
	PaymentID string    `json:"payment_id"`
	OrderID   string    `json:"order_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	PaidAt    time.Time `json:"paid_at"`
}

// Processor settles payments. The simulated implementation is the only one;
// wiring a real gateway is out of scope.
type Processor interface {
	Charge(ctx context.Context, orderID string, amount float64, method string) (PaymentResult, error)
}

// SimulatedProcessor confirms every charge after a short settlement delay,
// mirroring a cash-on-delivery flow where the charge never actually fails.
type SimulatedProcessor struct {
	Delay  time.Duration
	Logger *slog.Logger
}

// NewSimulatedProcessor builds a processor with a 500ms settlement delay.
func NewSimulatedProcessor(logger *slog.Logger) *SimulatedProcessor {
	return &SimulatedProcessor{Delay: 500 * time.Millisecond, Logger: logger}
}

// Charge waits out the settlement delay and confirms.
func (proc *SimulatedProcessor) Charge(ctx context.Context, orderID string, amount float64, method string) (PaymentResult, error) {
	if amount < 0 {
		return PaymentResult{}, fmt.Errorf("billing: negative amount %.2f", amount)
	}

	select {
	case <-ctx.Done():
		return PaymentResult{}, ctx.Err()
	case <-time.After(proc.Delay):
	}

	result := PaymentResult{
		PaymentID: "pay_" + uuid.NewString(),
		OrderID:   orderID,
		Amount:    amount,
		Method:    method,
		PaidAt:    time.Now().UTC(),
	}

	if proc.Logger != nil {
		log.Info(ctx, proc.Logger, "payment_confirmed",
			fmt.Sprintf("Payment %s confirmed for order %s (%.2f via %s)", result.PaymentID, orderID, amount, method))
	}
	return result, nil
}
