package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/assinaclub/ms-go-billing/app/entity"
	"github.com/assinaclub/ms-go-billing/app/gateway"
	"github.com/assinaclub/ms-go-billing/app/reference"
	"github.com/assinaclub/ms-go-billing/app/repository"
	"github.com/assinaclub/ms-go-billing/app/types"
)

const rawBodyPrefixLimit = 512

type ReconcileOutcome string

const (
	OutcomeIgnored          ReconcileOutcome = "ignored"
	OutcomeResolverError    ReconcileOutcome = "resolver_error"
	OutcomeUnresolved       ReconcileOutcome = "unresolved"
	OutcomeMissingReference ReconcileOutcome = "missing_reference"
	OutcomeInvalidReference ReconcileOutcome = "invalid_reference"
	OutcomeDuplicate        ReconcileOutcome = "duplicate"
	OutcomeOrderNotFound    ReconcileOutcome = "order_not_found"
	OutcomeProcessed        ReconcileOutcome = "processed"
)

// ReconcileResult reports which branch a webhook delivery took. Every
// outcome is acknowledged with HTTP 200 upstream; the outcome only feeds the
// response message and logs.
type ReconcileResult struct {
	Outcome ReconcileOutcome
	Message string
}

// HandleGatewayNotification reconciles one inbound webhook delivery against
// the local ledger. The contract with the gateway is acknowledgment, not
// outcome: unresolvable, duplicate, and foreign-environment notifications
// all produce a success result so the provider never enters a retry storm.
// Errors are returned only for unexpected persistence failures, in which
// case the provider's retry is exactly what we want.
func (s *BillingService) HandleGatewayNotification(ctx context.Context, req *types.WebhookRequest) (*ReconcileResult, error) {
	topic := strings.TrimSpace(req.Topic)
	externalID := strings.TrimSpace(req.ExternalID)
	if topic == "" || externalID == "" {
		return &ReconcileResult{Outcome: OutcomeIgnored, Message: "notificação recebida, nada a processar"}, nil
	}

	notifKey := topic + "_" + externalID
	logger := s.logger.WithField("topic", topic).WithField("external_id", externalID)

	resource, err := s.resolver.Resolve(ctx, externalID)
	if err != nil {
		// Transient by policy: acknowledge without mutating anything
		// rather than feeding the gateway's retry loop a 5xx.
		logger.WithError(err).Warn("Resolver failed, acknowledging without processing")
		return &ReconcileResult{Outcome: OutcomeResolverError, Message: "notificação recebida, não processada"}, nil
	}

	now := time.Now().UTC()

	if resource == nil {
		_ = s.notificationRepo.Create(ctx, &entity.Notification{
			Topic:         topic,
			ExternalID:    externalID,
			NotifKey:      notifKey,
			Resolved:      false,
			RawBodyPrefix: optionalString(truncate(string(req.RawBody), rawBodyPrefixLimit)),
			CreatedAt:     now,
		})
		return &ReconcileResult{Outcome: OutcomeUnresolved, Message: "recurso não encontrado no gateway"}, nil
	}

	kind := string(resource.Kind)
	payloadJSON := string(resource.Raw)
	info := extractPaymentInfo(resource)

	if info.ExternalReference == "" {
		_ = s.notificationRepo.Create(ctx, &entity.Notification{
			Topic:        topic,
			ExternalID:   externalID,
			NotifKey:     notifKey,
			Resolved:     true,
			ResourceKind: &kind,
			PayloadJSON:  &payloadJSON,
			CreatedAt:    now,
		})
		return &ReconcileResult{Outcome: OutcomeMissingReference, Message: "notificação sem external_reference"}, nil
	}

	ref := reference.Decode(info.ExternalReference)
	if ref == nil {
		_ = s.notificationRepo.Create(ctx, &entity.Notification{
			Topic:             topic,
			ExternalID:        externalID,
			NotifKey:          notifKey,
			Resolved:          true,
			Parsed:            false,
			ResourceKind:      &kind,
			ExternalReference: &info.ExternalReference,
			PayloadJSON:       &payloadJSON,
			CreatedAt:         now,
		})
		return &ReconcileResult{Outcome: OutcomeInvalidReference, Message: "external_reference inválida"}, nil
	}

	// The fence: a conditional create on the (owner, subscription, key)
	// unique index. Recording before mutating makes every later step
	// at-most-once per notification id even under duplicate delivery.
	err = s.notificationRepo.Create(ctx, &entity.Notification{
		OwnerID:           &ref.OwnerID,
		SubscriptionID:    &ref.SubscriptionID,
		Topic:             topic,
		ExternalID:        externalID,
		NotifKey:          notifKey,
		Resolved:          true,
		Parsed:            true,
		ResourceKind:      &kind,
		ExternalReference: &info.ExternalReference,
		PayloadJSON:       &payloadJSON,
		CreatedAt:         now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotificationAlreadyExists) {
			return &ReconcileResult{Outcome: OutcomeDuplicate, Message: "já processado"}, nil
		}
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, ref.OwnerID, ref.SubscriptionID, ref.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		logger.WithField("order_id", ref.OrderID).Warn("Order referenced by notification not found")
		return &ReconcileResult{Outcome: OutcomeOrderNotFound, Message: "pedido não encontrado"}, nil
	}

	if err := s.applyPayment(ctx, order, info, now); err != nil {
		return nil, err
	}

	return &ReconcileResult{Outcome: OutcomeProcessed, Message: "processado"}, nil
}

// applyPayment performs the order, installment, and subscription transitions
// for a resolved payment. The three writes are sequential, not one
// cross-table transaction: a crash in between leaves a recoverable
// inconsistency that the next delivery for the same order repairs.
func (s *BillingService) applyPayment(ctx context.Context, order *entity.Order, info paymentInfo, now time.Time) error {
	newStatus := types.OrderStatusFromGatewayStatus(info.Status)

	order.Status = int32(newStatus)
	order.GatewayPaymentID = optionalString(info.PaymentID)
	order.UpdatedAt = now
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return err
	}

	if newStatus == types.OrderStatusPaid {
		n := info.Installments
		if n <= 0 {
			n = 1
		}
		settled, err := s.installmentRepo.MarkOldestPendingPaid(ctx, order.OwnerID, order.SubscriptionID, n, now, info.PaymentID)
		if err != nil {
			return err
		}
		if settled == 0 && info.PaymentID != "" {
			// Nothing was pre-scheduled for this subscription; keep an
			// ad-hoc settlement record keyed by the gateway payment id.
			if err := s.gatewayPaymentRepo.Upsert(ctx, &entity.GatewayPayment{
				GatewayPaymentID: info.PaymentID,
				OwnerID:          order.OwnerID,
				SubscriptionID:   order.SubscriptionID,
				Status:           info.Status,
				PayloadJSON:      info.PayloadJSON,
				CreatedAt:        now,
				UpdatedAt:        now,
			}); err != nil {
				return err
			}
		}
	}

	subscription, err := s.subscriptionRepo.FindByID(ctx, order.OwnerID, order.SubscriptionID)
	if err != nil {
		return err
	}
	if subscription == nil {
		s.logger.WithField("subscription_id", order.SubscriptionID).Warn("Subscription referenced by order not found")
		return nil
	}

	subStatus := types.SubscriptionStatusFromOrderStatus(newStatus)
	if types.SubscriptionStatus(subscription.Status) == types.SubscriptionStatusActive && subStatus == types.SubscriptionStatusPendingPayment {
		// An already-active subscription never regresses to pending.
		return nil
	}

	var activatedAt *time.Time
	if subStatus == types.SubscriptionStatusActive {
		activatedAt = &now
	}
	return s.subscriptionRepo.UpdateStatus(ctx, order.OwnerID, order.SubscriptionID, int32(subStatus), activatedAt, now)
}

type paymentInfo struct {
	PaymentID         string
	Status            string
	ExternalReference string
	Installments      int32
	PayloadJSON       string
}

// extractPaymentInfo pulls the fields reconciliation needs out of a resolved
// resource. Payments carry external_reference directly; merchant orders may
// carry it nested under "order", and their status lives in "order_status".
func extractPaymentInfo(resource *gateway.Resource) paymentInfo {
	var payload struct {
		ID                json.Number `json:"id"`
		Status            string      `json:"status"`
		OrderStatus       string      `json:"order_status"`
		ExternalReference string      `json:"external_reference"`
		Installments      json.Number `json:"installments"`
		Order             struct {
			ExternalReference string `json:"external_reference"`
		} `json:"order"`
	}
	_ = json.Unmarshal(resource.Raw, &payload)

	info := paymentInfo{
		PaymentID:         strings.TrimSpace(payload.ID.String()),
		Status:            strings.TrimSpace(payload.Status),
		ExternalReference: strings.TrimSpace(payload.ExternalReference),
		PayloadJSON:       string(resource.Raw),
	}
	if info.ExternalReference == "" {
		info.ExternalReference = strings.TrimSpace(payload.Order.ExternalReference)
	}
	if info.Status == "" {
		info.Status = strings.TrimSpace(payload.OrderStatus)
	}
	if n, err := payload.Installments.Int64(); err == nil && n > 0 {
		info.Installments = int32(n)
	}
	return info
}
