package types

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestNewCreateOrderRequestFromContextTrimsAndDefaults(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/orders", bytes.NewBufferString(`{"userId":" user-1 ","assinaturaId":"sub-1","amountCentavos":10000,"descricao":" plano anual ","metodoPagamento":"pix"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	parsed, err := NewCreateOrderRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.OwnerID != "user-1" {
		t.Fatalf("expected trimmed owner id, got %q", parsed.OwnerID)
	}
	if parsed.Description != "plano anual" {
		t.Fatalf("expected trimmed description, got %q", parsed.Description)
	}
	if parsed.Installments != 1 {
		t.Fatalf("expected default of 1 installment, got %d", parsed.Installments)
	}
}

func TestCreateOrderRequestValidate(t *testing.T) {
	req := &CreateOrderRequest{}
	if err := req.Validate(); err == nil {
		t.Fatal("expected userId validation error")
	}

	req = &CreateOrderRequest{
		OwnerID:        "user-1",
		SubscriptionID: "sub-1",
		AmountCents:    10000,
		Installments:   501,
	}
	if err := req.Validate(); err == nil {
		t.Fatal("expected parcelas range validation error")
	}

	req.Installments = 12
	req.FirstDueDate = "31/01/2025"
	if err := req.Validate(); err == nil {
		t.Fatal("expected due date format validation error")
	}

	req.FirstDueDate = "2025-01-31"
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestCreateOrderRequestFirstDueDateTime(t *testing.T) {
	req := &CreateOrderRequest{}
	if !req.FirstDueDateTime().IsZero() {
		t.Fatal("expected zero time when no due date is supplied")
	}

	req.FirstDueDate = "2025-01-31"
	want := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	if !req.FirstDueDateTime().Equal(want) {
		t.Fatalf("unexpected due date: %v", req.FirstDueDateTime())
	}
}

func TestNewWebhookRequestFromContextQueryParams(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/webhooks/gateway?topic=payment&id=12345", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	parsed, err := NewWebhookRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.Topic != "payment" || parsed.ExternalID != "12345" {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
}

func TestNewWebhookRequestFromContextTypeAndDataID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/webhooks/gateway?type=payment&data.id=67890", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	parsed, err := NewWebhookRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.Topic != "payment" || parsed.ExternalID != "67890" {
		t.Fatalf("unexpected parse: %+v", parsed)
	}
}

func TestNewWebhookRequestFromContextBodyFallback(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/webhooks/gateway", bytes.NewBufferString(`{"type":"payment","data":{"id":99887766}}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	parsed, err := NewWebhookRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.Topic != "payment" {
		t.Fatalf("expected topic from body, got %q", parsed.Topic)
	}
	if parsed.ExternalID != "99887766" {
		t.Fatalf("expected numeric data.id preserved verbatim, got %q", parsed.ExternalID)
	}
	if len(parsed.RawBody) == 0 {
		t.Fatal("expected raw body captured")
	}
}

func TestNewWebhookRequestFromContextEmptyNotification(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/webhooks/gateway", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)

	parsed, err := NewWebhookRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.Topic != "" || parsed.ExternalID != "" {
		t.Fatalf("expected empty notification, got %+v", parsed)
	}
}

func TestNewGetOrderRequestFromContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("GET", "/orders/order-1?owner=user-1&subscription=sub-1", nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("order-1")

	parsed, err := NewGetOrderRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := parsed.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	parsed.OwnerID = ""
	if err := parsed.Validate(); err == nil {
		t.Fatal("expected owner validation error")
	}
}
