package entity

import "time"

// Notification records one webhook delivery. Scoped rows (owner and
// subscription set) double as the idempotency fence: the unique key on
// (owner_id, subscription_id, notif_key) makes the insert a conditional
// create. Unscoped rows are audit-only, written when the delivery could not
// be resolved or parsed down to an owner.
type Notification struct {
	ID uint64

	OwnerID        *string
	SubscriptionID *string

	Topic      string
	ExternalID string
	NotifKey   string

	Resolved bool
	Parsed   bool

	ResourceKind      *string
	ExternalReference *string
	PayloadJSON       *string
	RawBodyPrefix     *string

	CreatedAt time.Time
}
