package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/assinaclub/ms-go-billing/app/entity"
	"github.com/assinaclub/ms-go-billing/app/gateway"
	"github.com/assinaclub/ms-go-billing/app/reference"
	"github.com/assinaclub/ms-go-billing/app/types"
)

// CreateOrder runs the synchronous checkout flow: persist a pending order,
// create the gateway preference carrying the encoded external reference, and
// persist the preference id and redirect URL back onto the order. Gateway
// failures are persisted as gateway-error and propagated: the caller is an
// interactive checkout that must see them. Installment generation afterwards
// is advisory and only logged on failure.
func (s *BillingService) CreateOrder(ctx context.Context, req *types.CreateOrderRequest) (*entity.Order, error) {
	ownerID := strings.TrimSpace(req.OwnerID)
	subscriptionID := strings.TrimSpace(req.SubscriptionID)
	if ownerID == "" || subscriptionID == "" {
		return nil, ErrInvalidRequest
	}
	if req.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: amountCentavos must be > 0", ErrInvalidRequest)
	}
	count := req.Installments
	if count == 0 {
		count = 1
	}
	if count < types.MinInstallmentCount || count > types.MaxInstallmentCount {
		return nil, fmt.Errorf("%w: parcelas must be between %d and %d", ErrInvalidRequest, types.MinInstallmentCount, types.MaxInstallmentCount)
	}

	now := time.Now().UTC()
	order := &entity.Order{
		ID:               uuid.NewString(),
		OwnerID:          ownerID,
		SubscriptionID:   subscriptionID,
		AmountCents:      req.AmountCents,
		Description:      strings.TrimSpace(req.Description),
		InstallmentCount: count,
		PaymentMethod:    optionalString(strings.TrimSpace(req.PaymentMethod)),
		Status:           int32(types.OrderStatusPending),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	externalReference := reference.Encode(ownerID, subscriptionID, order.ID)
	preference, err := s.gateway.CreatePreference(ctx, &gateway.PreferenceInput{
		Title:             order.Description,
		AmountCents:       order.AmountCents,
		ExternalReference: externalReference,
	})
	if err != nil {
		detail := truncate(err.Error(), 1024)
		order.Status = int32(types.OrderStatusGatewayError)
		order.GatewayErrorDetail = &detail
		order.UpdatedAt = time.Now().UTC()
		if updateErr := s.orderRepo.Update(ctx, order); updateErr != nil {
			s.logger.WithError(updateErr).WithField("order_id", order.ID).Error("Failed to persist gateway error on order")
		}
		return nil, fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}

	order.GatewayPreferenceID = optionalString(strings.TrimSpace(preference.ID))
	redirectURL := strings.TrimSpace(preference.InitPoint)
	if redirectURL == "" {
		redirectURL = strings.TrimSpace(preference.SandboxInitPoint)
	}
	order.CheckoutURL = optionalString(redirectURL)
	order.UpdatedAt = time.Now().UTC()
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	if err := s.GenerateInstallments(ctx, GenerateInstallmentsInput{
		OwnerID:        ownerID,
		SubscriptionID: subscriptionID,
		TotalCents:     order.AmountCents,
		Count:          count,
		PaymentMethod:  strings.TrimSpace(req.PaymentMethod),
		FirstDueDate:   req.FirstDueDateTime(),
		StableOrderID:  order.ID,
	}); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("Installment generation failed after order creation")
	}

	return order, nil
}

func (s *BillingService) GetOrder(ctx context.Context, req *types.GetOrderRequest) (*entity.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, req.OwnerID, req.SubscriptionID, req.ID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
