package types

import "strings"

type OrderStatus int32

const (
	OrderStatusUnspecified  OrderStatus = 0
	OrderStatusPending      OrderStatus = 1
	OrderStatusPaid         OrderStatus = 2
	OrderStatusFailed       OrderStatus = 3
	OrderStatusGatewayError OrderStatus = 4
)

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "pending"
	case OrderStatusPaid:
		return "paid"
	case OrderStatusFailed:
		return "failed"
	case OrderStatusGatewayError:
		return "gateway_error"
	default:
		return "unspecified"
	}
}

type InstallmentStatus int32

const (
	InstallmentStatusPending InstallmentStatus = 1
	InstallmentStatusPaid    InstallmentStatus = 2
)

type SubscriptionStatus int32

const (
	SubscriptionStatusUnspecified           SubscriptionStatus = 0
	SubscriptionStatusPendingPayment        SubscriptionStatus = 1
	SubscriptionStatusActive                SubscriptionStatus = 2
	SubscriptionStatusPaymentFailed         SubscriptionStatus = 3
	SubscriptionStatusCancellationRequested SubscriptionStatus = 4
	SubscriptionStatusCancelled             SubscriptionStatus = 5
)

func (s SubscriptionStatus) String() string {
	switch s {
	case SubscriptionStatusPendingPayment:
		return "pending_payment"
	case SubscriptionStatusActive:
		return "active"
	case SubscriptionStatusPaymentFailed:
		return "payment_failed"
	case SubscriptionStatusCancellationRequested:
		return "cancellation_requested"
	case SubscriptionStatusCancelled:
		return "cancelled"
	default:
		return "unspecified"
	}
}

// OrderStatusFromGatewayStatus maps the gateway's payment status string onto
// the local order status. Unrecognized values deliberately land on pending so
// an unknown gateway state never flips an order to a terminal status.
func OrderStatusFromGatewayStatus(gatewayStatus string) OrderStatus {
	switch strings.ToLower(strings.TrimSpace(gatewayStatus)) {
	case "approved", "paid":
		return OrderStatusPaid
	case "cancelled", "rejected", "refunded":
		return OrderStatusFailed
	case "pending":
		return OrderStatusPending
	default:
		return OrderStatusPending
	}
}

// SubscriptionStatusFromOrderStatus derives the subscription status that an
// order transition implies.
func SubscriptionStatusFromOrderStatus(orderStatus OrderStatus) SubscriptionStatus {
	switch orderStatus {
	case OrderStatusPaid:
		return SubscriptionStatusActive
	case OrderStatusFailed:
		return SubscriptionStatusPaymentFailed
	default:
		return SubscriptionStatusPendingPayment
	}
}
