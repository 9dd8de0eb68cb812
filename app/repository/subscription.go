package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/assinaclub/ms-go-billing/app/entity"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

type SubscriptionRepository struct {
	db DBTX
}

func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, ownerID, subscriptionID string) (*entity.Subscription, error) {
	query := `
		SELECT id, owner_id, status, activated_at, created_at, updated_at
		FROM subscriptions
		WHERE owner_id = ? AND id = ?
	`

	subscription := &entity.Subscription{}
	var activatedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, ownerID, subscriptionID).Scan(
		&subscription.ID,
		&subscription.OwnerID,
		&subscription.Status,
		&activatedAt,
		&subscription.CreatedAt,
		&subscription.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	subscription.ActivatedAt = timePtrFromNull(activatedAt)
	return subscription, nil
}

func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, ownerID, subscriptionID string, status int32, activatedAt *time.Time, now time.Time) error {
	query := `
		UPDATE subscriptions
		SET status = ?,
			activated_at = COALESCE(?, activated_at),
			updated_at = ?
		WHERE owner_id = ? AND id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		status,
		nullableTimeValue(activatedAt),
		now,
		ownerID,
		subscriptionID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}
