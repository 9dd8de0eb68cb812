package entity

import "time"

// Order is one checkout attempt for a subscription. It is created by the
// synchronous checkout flow and mutated only by the gateway preference
// response and by webhook reconciliation; orders are never deleted.
type Order struct {
	ID string

	OwnerID        string
	SubscriptionID string

	AmountCents      int64
	Description      string
	InstallmentCount int32
	PaymentMethod    *string

	Status int32

	GatewayPreferenceID *string
	CheckoutURL         *string
	GatewayPaymentID    *string
	GatewayErrorDetail  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
