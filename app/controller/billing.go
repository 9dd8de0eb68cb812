package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/assinaclub/ms-go-billing/app/factory"
	"github.com/assinaclub/ms-go-billing/app/mapper"
	"github.com/assinaclub/ms-go-billing/app/service"
	"github.com/assinaclub/ms-go-billing/app/types"
)

type BillingController struct {
	billingService *service.BillingService
	logger         logrus.FieldLogger
}

func NewBillingController(billingService *service.BillingService) *BillingController {
	return &BillingController{
		billingService: billingService,
		logger:         factory.NewModuleLogger("billing-controller"),
	}
}

func (c *BillingController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

func (c *BillingController) CreateOrder(ctx echo.Context) error {
	req, err := types.NewCreateOrderRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body", "")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error(), "")
	}

	order, err := c.billingService.CreateOrder(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error(), "")
		case errors.Is(err, service.ErrGatewayFailure):
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Gateway preference creation failed")
			return c.writeError(ctx, http.StatusInternalServerError, "falha ao criar preferência no gateway", gatewayFailureDetail(err))
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Create order failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error", "")
		}
	}

	redirectURL := ""
	if order.CheckoutURL != nil {
		redirectURL = *order.CheckoutURL
	}
	return ctx.JSON(http.StatusOK, &types.CreateOrderResponse{
		OK:          true,
		OrderID:     order.ID,
		RedirectURL: redirectURL,
	})
}

func (c *BillingController) GetOrder(ctx echo.Context) error {
	req, err := types.NewGetOrderRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request", "")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error(), "")
	}

	order, err := c.billingService.GetOrder(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "pedido não encontrado", "")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get order failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error", "")
	}

	return ctx.JSON(http.StatusOK, &types.OrderEnvelopeResponse{OK: true, Order: mapper.OrderToPayload(order)})
}

// HandleGatewayWebhook acknowledges every reconciliation branch with 200.
// Only an unexpected internal failure outside the reconciliation contract
// surfaces as a 500, in which case the gateway's retry is the recovery path.
func (c *BillingController) HandleGatewayWebhook(ctx echo.Context) error {
	req, err := types.NewWebhookRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body", "")
	}

	result, err := c.billingService.HandleGatewayNotification(ctx.Request().Context(), req)
	if err != nil {
		c.logger.WithError(err).
			WithField("topic", req.Topic).
			WithField("external_id", req.ExternalID).
			Error("Webhook reconciliation failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error", "")
	}

	c.logger.WithField("topic", req.Topic).
		WithField("external_id", req.ExternalID).
		WithField("outcome", string(result.Outcome)).
		Info("Webhook acknowledged")

	return ctx.JSON(http.StatusOK, &types.WebhookResponse{OK: true, Message: result.Message})
}

func (c *BillingController) writeError(ctx echo.Context, statusCode int, message, detail string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{OK: false, Message: message, Detail: detail})
}

func gatewayFailureDetail(err error) string {
	detail := err.Error()
	if idx := strings.Index(detail, ": "); idx >= 0 {
		detail = detail[idx+2:]
	}
	return detail
}
