package mapper

import (
	"time"

	"github.com/assinaclub/ms-go-billing/app/entity"
	"github.com/assinaclub/ms-go-billing/app/types"
)

func OrderToPayload(order *entity.Order) *types.OrderPayload {
	return &types.OrderPayload{
		ID:                  order.ID,
		OwnerID:             order.OwnerID,
		SubscriptionID:      order.SubscriptionID,
		AmountCents:         order.AmountCents,
		Description:         order.Description,
		Installments:        order.InstallmentCount,
		PaymentMethod:       stringValue(order.PaymentMethod),
		Status:              types.OrderStatus(order.Status).String(),
		GatewayPreferenceID: stringValue(order.GatewayPreferenceID),
		CheckoutURL:         stringValue(order.CheckoutURL),
		GatewayPaymentID:    stringValue(order.GatewayPaymentID),
		CreatedAt:           order.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           order.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
