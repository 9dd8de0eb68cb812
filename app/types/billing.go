package types

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const (
	MinInstallmentCount = 1
	MaxInstallmentCount = 500

	dueDateLayout = "2006-01-02"
)

var validate = validator.New()

type CreateOrderRequest struct {
	OwnerID        string `json:"userId" validate:"required"`
	SubscriptionID string `json:"assinaturaId" validate:"required"`
	AmountCents    int64  `json:"amountCentavos" validate:"required,gt=0"`
	Description    string `json:"descricao"`
	Installments   int32  `json:"parcelas"`
	PaymentMethod  string `json:"metodoPagamento"`
	FirstDueDate   string `json:"dataPrimeiroVencimento"`
}

func NewCreateOrderRequestFromContext(ctx echo.Context) (*CreateOrderRequest, error) {
	var body CreateOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.OwnerID = strings.TrimSpace(body.OwnerID)
	body.SubscriptionID = strings.TrimSpace(body.SubscriptionID)
	body.Description = strings.TrimSpace(body.Description)
	body.PaymentMethod = strings.TrimSpace(body.PaymentMethod)
	body.FirstDueDate = strings.TrimSpace(body.FirstDueDate)
	if body.Installments == 0 {
		body.Installments = 1
	}

	return &body, nil
}

func (r *CreateOrderRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			switch fieldErrs[0].Field() {
			case "OwnerID":
				return errors.New("userId is required")
			case "SubscriptionID":
				return errors.New("assinaturaId is required")
			case "AmountCents":
				return errors.New("amountCentavos must be a positive integer")
			}
		}
		return err
	}
	if r.Installments < MinInstallmentCount || r.Installments > MaxInstallmentCount {
		return errors.New("parcelas must be between 1 and 500")
	}
	if r.FirstDueDate != "" {
		if _, err := time.Parse(dueDateLayout, r.FirstDueDate); err != nil {
			return errors.New("dataPrimeiroVencimento must be formatted as YYYY-MM-DD")
		}
	}
	return nil
}

// FirstDueDateTime returns the parsed first due date, or the zero time when
// none was supplied. Validate guarantees the format.
func (r *CreateOrderRequest) FirstDueDateTime() time.Time {
	if r.FirstDueDate == "" {
		return time.Time{}
	}
	t, _ := time.Parse(dueDateLayout, r.FirstDueDate)
	return t
}

type GetOrderRequest struct {
	ID             string
	OwnerID        string
	SubscriptionID string
}

func NewGetOrderRequestFromContext(ctx echo.Context) (*GetOrderRequest, error) {
	req := &GetOrderRequest{
		ID:             strings.TrimSpace(ctx.Param("id")),
		OwnerID:        strings.TrimSpace(ctx.QueryParam("owner")),
		SubscriptionID: strings.TrimSpace(ctx.QueryParam("subscription")),
	}
	return req, nil
}

func (r *GetOrderRequest) Validate() error {
	if r.ID == "" {
		return errors.New("order id is required")
	}
	if r.OwnerID == "" {
		return errors.New("owner is required")
	}
	if r.SubscriptionID == "" {
		return errors.New("subscription is required")
	}
	return nil
}

// WebhookRequest carries one inbound gateway notification. Topic and
// ExternalID may both be empty: many provider pings carry no actionable id
// and are acknowledged without processing.
type WebhookRequest struct {
	Topic      string
	ExternalID string
	RawBody    []byte
}

func NewWebhookRequestFromContext(ctx echo.Context) (*WebhookRequest, error) {
	topic := strings.TrimSpace(ctx.QueryParam("topic"))
	if topic == "" {
		topic = strings.TrimSpace(ctx.QueryParam("type"))
	}
	externalID := strings.TrimSpace(ctx.QueryParam("id"))
	if externalID == "" {
		externalID = strings.TrimSpace(ctx.QueryParam("data.id"))
	}

	rawBody, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, err
	}

	if topic == "" || externalID == "" {
		var body struct {
			Topic string      `json:"topic"`
			Type  string      `json:"type"`
			ID    json.Number `json:"id"`
			Data  struct {
				ID json.Number `json:"id"`
			} `json:"data"`
		}
		if len(rawBody) > 0 && json.Unmarshal(rawBody, &body) == nil {
			if topic == "" {
				topic = strings.TrimSpace(body.Topic)
			}
			if topic == "" {
				topic = strings.TrimSpace(body.Type)
			}
			if externalID == "" {
				externalID = strings.TrimSpace(body.ID.String())
			}
			if externalID == "" {
				externalID = strings.TrimSpace(body.Data.ID.String())
			}
		}
	}

	return &WebhookRequest{
		Topic:      topic,
		ExternalID: externalID,
		RawBody:    rawBody,
	}, nil
}

type CreateOrderResponse struct {
	OK          bool   `json:"ok"`
	OrderID     string `json:"pedidoId"`
	RedirectURL string `json:"redirectUrl"`
}

type WebhookResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type OrderPayload struct {
	ID                  string `json:"id"`
	OwnerID             string `json:"userId"`
	SubscriptionID      string `json:"assinaturaId"`
	AmountCents         int64  `json:"amountCentavos"`
	Description         string `json:"descricao,omitempty"`
	Installments        int32  `json:"parcelas"`
	PaymentMethod       string `json:"metodoPagamento,omitempty"`
	Status              string `json:"status"`
	GatewayPreferenceID string `json:"preferenceId,omitempty"`
	CheckoutURL         string `json:"redirectUrl,omitempty"`
	GatewayPaymentID    string `json:"gatewayPaymentId,omitempty"`
	CreatedAt           string `json:"createdAt"`
	UpdatedAt           string `json:"updatedAt"`
}

type OrderEnvelopeResponse struct {
	OK    bool          `json:"ok"`
	Order *OrderPayload `json:"pedido"`
}

type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
