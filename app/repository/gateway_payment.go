package repository

import (
	"context"

	"github.com/assinaclub/ms-go-billing/app/entity"
)

type GatewayPaymentRepository struct {
	db DBTX
}

func NewGatewayPaymentRepository(db DBTX) *GatewayPaymentRepository {
	return &GatewayPaymentRepository{db: db}
}

// Upsert records an ad-hoc settlement keyed by the gateway payment id.
// Re-delivery of the same payment refreshes status and payload.
func (r *GatewayPaymentRepository) Upsert(ctx context.Context, payment *entity.GatewayPayment) error {
	query := `
		INSERT INTO gateway_payments (
			gateway_payment_id, owner_id, subscription_id, status, payload_json,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			status = VALUES(status),
			payload_json = VALUES(payload_json),
			updated_at = VALUES(updated_at)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.GatewayPaymentID,
		payment.OwnerID,
		payment.SubscriptionID,
		payment.Status,
		payment.PayloadJSON,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	return err
}
