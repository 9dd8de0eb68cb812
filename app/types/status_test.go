package types

import "testing"

func TestOrderStatusFromGatewayStatus(t *testing.T) {
	cases := []struct {
		gatewayStatus string
		want          OrderStatus
	}{
		{"approved", OrderStatusPaid},
		{"paid", OrderStatusPaid},
		{"APPROVED", OrderStatusPaid},
		{" approved ", OrderStatusPaid},
		{"cancelled", OrderStatusFailed},
		{"rejected", OrderStatusFailed},
		{"refunded", OrderStatusFailed},
		{"pending", OrderStatusPending},
		{"in_process", OrderStatusPending},
		{"charged_back", OrderStatusPending},
		{"", OrderStatusPending},
		{"something-new", OrderStatusPending},
	}

	for _, tc := range cases {
		if got := OrderStatusFromGatewayStatus(tc.gatewayStatus); got != tc.want {
			t.Fatalf("OrderStatusFromGatewayStatus(%q) = %v, want %v", tc.gatewayStatus, got, tc.want)
		}
	}
}

func TestSubscriptionStatusFromOrderStatus(t *testing.T) {
	cases := []struct {
		orderStatus OrderStatus
		want        SubscriptionStatus
	}{
		{OrderStatusPaid, SubscriptionStatusActive},
		{OrderStatusFailed, SubscriptionStatusPaymentFailed},
		{OrderStatusPending, SubscriptionStatusPendingPayment},
		{OrderStatusGatewayError, SubscriptionStatusPendingPayment},
		{OrderStatusUnspecified, SubscriptionStatusPendingPayment},
	}

	for _, tc := range cases {
		if got := SubscriptionStatusFromOrderStatus(tc.orderStatus); got != tc.want {
			t.Fatalf("SubscriptionStatusFromOrderStatus(%v) = %v, want %v", tc.orderStatus, got, tc.want)
		}
	}
}

func TestStatusStrings(t *testing.T) {
	if OrderStatusPaid.String() != "paid" {
		t.Fatalf("unexpected order status string: %s", OrderStatusPaid.String())
	}
	if OrderStatus(42).String() != "unspecified" {
		t.Fatalf("unexpected unknown order status string: %s", OrderStatus(42).String())
	}
	if SubscriptionStatusActive.String() != "active" {
		t.Fatalf("unexpected subscription status string: %s", SubscriptionStatusActive.String())
	}
}
