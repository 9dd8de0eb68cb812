package entity

import "time"

// Installment is one scheduled payment unit of an order. When generated
// against a stable order id its ID is derived deterministically from the
// order id and sequence number, so regeneration is an upsert no-op.
type Installment struct {
	ID string

	OwnerID        string
	SubscriptionID string
	OrderID        *string

	SeqNumber   int32
	AmountCents int64

	DueDate time.Time
	PaidAt  *time.Time

	PaymentMethod    *string
	Status           int32
	GatewayPaymentID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
