package repository

import (
	"context"
	"errors"

	"github.com/assinaclub/ms-go-billing/app/entity"
)

// ErrNotificationAlreadyExists means the (owner, subscription, notification
// key) fence row is already present: the delivery was processed before.
var ErrNotificationAlreadyExists = errors.New("notification already processed")

type NotificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create persists one notification record. For scoped records the unique key
// on (owner_id, subscription_id, notif_key) makes this a conditional create;
// a duplicate insert maps to ErrNotificationAlreadyExists. Unscoped audit
// records carry NULL owner/subscription and never collide.
func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (
			owner_id, subscription_id, topic, external_id, notif_key,
			resolved, parsed, resource_kind, external_reference,
			payload_json, raw_body_prefix, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		nullableStringValue(notification.OwnerID),
		nullableStringValue(notification.SubscriptionID),
		notification.Topic,
		notification.ExternalID,
		notification.NotifKey,
		notification.Resolved,
		notification.Parsed,
		nullableStringValue(notification.ResourceKind),
		nullableStringValue(notification.ExternalReference),
		nullableStringValue(notification.PayloadJSON),
		nullableStringValue(notification.RawBodyPrefix),
		notification.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrNotificationAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	notification.ID = uint64(id)
	return nil
}
