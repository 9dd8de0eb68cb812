package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/assinaclub/ms-go-billing/app/entity"
	"github.com/assinaclub/ms-go-billing/app/factory"
	"github.com/assinaclub/ms-go-billing/app/gateway"
	"github.com/assinaclub/ms-go-billing/config"
)

const defaultBatchSize = int32(100)

type orderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	Update(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, ownerID, subscriptionID, orderID string) (*entity.Order, error)
	ListStalePending(ctx context.Context, before time.Time, limit int32) ([]*entity.Order, error)
}

type installmentRepository interface {
	Upsert(ctx context.Context, installment *entity.Installment) error
	MarkOldestPendingPaid(ctx context.Context, ownerID, subscriptionID string, n int32, paidAt time.Time, gatewayPaymentID string) (int64, error)
}

type subscriptionRepository interface {
	FindByID(ctx context.Context, ownerID, subscriptionID string) (*entity.Subscription, error)
	UpdateStatus(ctx context.Context, ownerID, subscriptionID string, status int32, activatedAt *time.Time, now time.Time) error
}

type notificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
}

type gatewayPaymentRepository interface {
	Upsert(ctx context.Context, payment *entity.GatewayPayment) error
}

type gatewayClient interface {
	CreatePreference(ctx context.Context, input *gateway.PreferenceInput) (*gateway.PreferenceOutput, error)
	SearchPaymentsByExternalReference(ctx context.Context, externalReference string) ([]json.RawMessage, error)
}

type resourceResolver interface {
	Resolve(ctx context.Context, externalID string) (*gateway.Resource, error)
}

type BillingService struct {
	orderRepo          orderRepository
	installmentRepo    installmentRepository
	subscriptionRepo   subscriptionRepository
	notificationRepo   notificationRepository
	gatewayPaymentRepo gatewayPaymentRepository
	gateway            gatewayClient
	resolver           resourceResolver
	billingCfg         config.BillingConfig
	logger             logrus.FieldLogger
}

func NewBillingService(
	orderRepo orderRepository,
	installmentRepo installmentRepository,
	subscriptionRepo subscriptionRepository,
	notificationRepo notificationRepository,
	gatewayPaymentRepo gatewayPaymentRepository,
	gatewayCli gatewayClient,
	resolver resourceResolver,
	billingCfg config.BillingConfig,
) *BillingService {
	return &BillingService{
		orderRepo:          orderRepo,
		installmentRepo:    installmentRepo,
		subscriptionRepo:   subscriptionRepo,
		notificationRepo:   notificationRepo,
		gatewayPaymentRepo: gatewayPaymentRepo,
		gateway:            gatewayCli,
		resolver:           resolver,
		billingCfg:         billingCfg,
		logger:             factory.NewModuleLogger("billing-service"),
	}
}

func (s *BillingService) batchSize() int32 {
	if s.billingCfg.JobBatchSize > 0 {
		return s.billingCfg.JobBatchSize
	}
	return defaultBatchSize
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
