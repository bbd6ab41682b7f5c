package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// PaymentClient is the external payment provider. Charge settles before
// any inventory moves; everything after a successful charge must either
// complete or refund.
type PaymentClient interface {
	Charge(ctx context.Context, token string, amountMinor int64, currency string) (paymentRef string, err error)
	Refund(ctx context.Context, paymentRef string) error
}

// fakePaymentClient approves everything. Used in development and tests
// until a real provider is wired in.
type fakePaymentClient struct{}

func NewFakePaymentClient() PaymentClient {
	return fakePaymentClient{}
}

func (fakePaymentClient) Charge(ctx context.Context, token string, amountMinor int64, currency string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("missing payment token")
	}
	return "fake-" + uuid.NewString(), nil
}

func (fakePaymentClient) Refund(ctx context.Context, paymentRef string) error {
	return nil
}
