package entity

import "time"

// GatewayPayment is an ad-hoc settlement record keyed by the gateway's
// payment id. It covers subscriptions that were never pre-scheduled into
// installments: when a paid notification arrives and no pending installment
// exists, the resolved payload is kept here for audit.
type GatewayPayment struct {
	GatewayPaymentID string

	OwnerID        string
	SubscriptionID string

	Status      string
	PayloadJSON string

	CreatedAt time.Time
	UpdatedAt time.Time
}
