package entity

import "time"

// Subscription is the long-lived access grant for an owner. This service
// only mutates its status and activation timestamp; signup owns creation.
type Subscription struct {
	ID      string
	OwnerID string

	Status      int32
	ActivatedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
