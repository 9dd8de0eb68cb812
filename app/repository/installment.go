package repository

import (
	"context"
	"time"

	"github.com/assinaclub/ms-go-billing/app/entity"
)

type InstallmentRepository struct {
	db DBTX
}

func NewInstallmentRepository(db DBTX) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

// Upsert inserts an installment, or merges schedule fields into an existing
// row with the same id. Settlement fields (status, paid_at,
// gateway_payment_id) are never touched on conflict, so regenerating a
// schedule cannot un-pay an installment.
func (r *InstallmentRepository) Upsert(ctx context.Context, installment *entity.Installment) error {
	query := `
		INSERT INTO installments (
			id, owner_id, subscription_id, order_id, seq_number, amount_cents,
			due_date, paid_at, payment_method, status, gateway_payment_id,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			order_id = VALUES(order_id),
			amount_cents = VALUES(amount_cents),
			due_date = VALUES(due_date),
			payment_method = VALUES(payment_method),
			updated_at = VALUES(updated_at)
	`

	_, err := r.db.ExecContext(ctx, query,
		installment.ID,
		installment.OwnerID,
		installment.SubscriptionID,
		nullableStringValue(installment.OrderID),
		installment.SeqNumber,
		installment.AmountCents,
		installment.DueDate,
		nullableTimeValue(installment.PaidAt),
		nullableStringValue(installment.PaymentMethod),
		installment.Status,
		nullableStringValue(installment.GatewayPaymentID),
		installment.CreatedAt,
		installment.UpdatedAt,
	)
	return err
}

// MarkOldestPendingPaid settles up to n pending installments, oldest sequence
// first, in a single statement so a racing delivery observes all-or-none of
// the batch. It returns how many rows were settled.
func (r *InstallmentRepository) MarkOldestPendingPaid(ctx context.Context, ownerID, subscriptionID string, n int32, paidAt time.Time, gatewayPaymentID string) (int64, error) {
	if n <= 0 {
		return 0, nil
	}

	query := `
		UPDATE installments
		SET status = ?, paid_at = ?, gateway_payment_id = ?, updated_at = ?
		WHERE owner_id = ? AND subscription_id = ? AND status = ?
		ORDER BY seq_number ASC
		LIMIT ?
	`

	result, err := r.db.ExecContext(ctx, query,
		2,
		paidAt,
		gatewayPaymentID,
		paidAt,
		ownerID,
		subscriptionID,
		1,
		n,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
