package service

import (
	"context"
	"time"

	"github.com/assinaclub/ms-go-billing/app/gateway"
	"github.com/assinaclub/ms-go-billing/app/reference"
	"github.com/assinaclub/ms-go-billing/app/types"
)

// RunReconcileBatch sweeps orders stuck pending longer than the configured
// threshold and asks the gateway whether a payment exists for their external
// reference. It covers notifications lost during gateway or webhook outages;
// the webhook path stays the primary reconciliation channel.
func (s *BillingService) RunReconcileBatch(ctx context.Context) error {
	now := time.Now().UTC()
	before := now.Add(-s.billingCfg.ReconcileStaleAfter)

	orders, err := s.orderRepo.ListStalePending(ctx, before, s.batchSize())
	if err != nil {
		return err
	}

	var firstErr error
	for _, order := range orders {
		externalReference := reference.Encode(order.OwnerID, order.SubscriptionID, order.ID)

		results, err := s.gateway.SearchPaymentsByExternalReference(ctx, externalReference)
		if err != nil {
			firstErr = keepFirstErr(firstErr, err)
			continue
		}
		if len(results) == 0 {
			continue
		}

		info := extractPaymentInfo(&gateway.Resource{Kind: gateway.KindPaymentSearchExt, Raw: results[0]})
		if types.OrderStatusFromGatewayStatus(info.Status) == types.OrderStatusPending {
			continue
		}

		if err := s.applyPayment(ctx, order, info, now); err != nil {
			firstErr = keepFirstErr(firstErr, err)
			continue
		}

		s.logger.WithField("order_id", order.ID).
			WithField("gateway_status", info.Status).
			Info("Stale order reconciled from gateway search")
	}

	return firstErr
}

func keepFirstErr(current error, candidate error) error {
	if current != nil {
		return current
	}
	return candidate
}
