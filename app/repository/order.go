package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/assinaclub/ms-go-billing/app/entity"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAlreadyExists = errors.New("order already exists")
)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (
			id, owner_id, subscription_id, amount_cents, description,
			installment_count, payment_method, status,
			gateway_preference_id, checkout_url, gateway_payment_id, gateway_error_detail,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.OwnerID,
		order.SubscriptionID,
		order.AmountCents,
		order.Description,
		order.InstallmentCount,
		nullableStringValue(order.PaymentMethod),
		order.Status,
		nullableStringValue(order.GatewayPreferenceID),
		nullableStringValue(order.CheckoutURL),
		nullableStringValue(order.GatewayPaymentID),
		nullableStringValue(order.GatewayErrorDetail),
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrOrderAlreadyExists
		}
		return err
	}
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, order *entity.Order) error {
	query := `
		UPDATE orders SET
			amount_cents = ?,
			description = ?,
			installment_count = ?,
			payment_method = ?,
			status = ?,
			gateway_preference_id = ?,
			checkout_url = ?,
			gateway_payment_id = ?,
			gateway_error_detail = ?,
			updated_at = ?
		WHERE owner_id = ? AND subscription_id = ? AND id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		order.AmountCents,
		order.Description,
		order.InstallmentCount,
		nullableStringValue(order.PaymentMethod),
		order.Status,
		nullableStringValue(order.GatewayPreferenceID),
		nullableStringValue(order.CheckoutURL),
		nullableStringValue(order.GatewayPaymentID),
		nullableStringValue(order.GatewayErrorDetail),
		order.UpdatedAt,
		order.OwnerID,
		order.SubscriptionID,
		order.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, ownerID, subscriptionID, orderID string) (*entity.Order, error) {
	query := `
		SELECT id, owner_id, subscription_id, amount_cents, description,
			installment_count, payment_method, status,
			gateway_preference_id, checkout_url, gateway_payment_id, gateway_error_detail,
			created_at, updated_at
		FROM orders
		WHERE owner_id = ? AND subscription_id = ? AND id = ?
	`

	order := &entity.Order{}
	if err := scanOrder(r.db.QueryRowContext(ctx, query, ownerID, subscriptionID, orderID), order); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *OrderRepository) ListStalePending(ctx context.Context, before time.Time, limit int32) ([]*entity.Order, error) {
	query := `
		SELECT id, owner_id, subscription_id, amount_cents, description,
			installment_count, payment_method, status,
			gateway_preference_id, checkout_url, gateway_payment_id, gateway_error_detail,
			created_at, updated_at
		FROM orders
		WHERE status = ?
		  AND gateway_preference_id IS NOT NULL
		  AND updated_at <= ?
		ORDER BY updated_at ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, 1, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*entity.Order, 0)
	for rows.Next() {
		item := &entity.Order{}
		if err := scanOrder(rows, item); err != nil {
			return nil, err
		}
		orders = append(orders, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(scan rowScanner, order *entity.Order) error {
	var paymentMethod sql.NullString
	var preferenceID sql.NullString
	var checkoutURL sql.NullString
	var gatewayPaymentID sql.NullString
	var gatewayErrorDetail sql.NullString

	err := scan.Scan(
		&order.ID,
		&order.OwnerID,
		&order.SubscriptionID,
		&order.AmountCents,
		&order.Description,
		&order.InstallmentCount,
		&paymentMethod,
		&order.Status,
		&preferenceID,
		&checkoutURL,
		&gatewayPaymentID,
		&gatewayErrorDetail,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return err
	}

	order.PaymentMethod = stringPtrFromNull(paymentMethod)
	order.GatewayPreferenceID = stringPtrFromNull(preferenceID)
	order.CheckoutURL = stringPtrFromNull(checkoutURL)
	order.GatewayPaymentID = stringPtrFromNull(gatewayPaymentID)
	order.GatewayErrorDetail = stringPtrFromNull(gatewayErrorDetail)

	return nil
}
