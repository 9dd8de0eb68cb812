package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		AccessToken: "TEST-token",
		BaseURL:     server.URL,
		SuccessURL:  "https://app.example/success",
		FailureURL:  "https://app.example/failure",
		PendingURL:  "https://app.example/pending",
	})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	return client, server
}

func TestNewClientRequiresAccessToken(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for missing access token")
	}
}

func TestGetPaymentSendsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"id":123,"status":"approved"}`))
	})

	raw, err := client.GetPayment(context.Background(), "123")
	if err != nil {
		t.Fatalf("get payment failed: %v", err)
	}
	if gotAuth != "Bearer TEST-token" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
	if gotPath != "/v1/payments/123" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if len(raw) == 0 {
		t.Fatal("expected payment payload")
	}
}

func TestGetPaymentNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetPayment(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPaymentGatewayError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	})

	_, err := client.GetPayment(context.Background(), "123")
	var gatewayErr *GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	if gatewayErr.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", gatewayErr.Status)
	}
}

func TestGetPaymentNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client, err := NewClient(Config{AccessToken: "TEST-token", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	server.Close()

	_, err = client.GetPayment(context.Background(), "123")
	var networkErr *NetworkError
	if !errors.As(err, &networkErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestSearchPaymentsByExternalReference(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("external_reference")
		_, _ = w.Write([]byte(`{"results":[{"id":1},{"id":2}]}`))
	})

	results, err := client.SearchPaymentsByExternalReference(context.Background(), "user-1|sub-1|order-1")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if gotQuery != "user-1|sub-1|order-1" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestSearchPaymentsEmptyResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	results, err := client.SearchPaymentsByOrderID(context.Background(), "999")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestCreatePreferencePayload(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/checkout/preferences" {
			t.Errorf("unexpected path: %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode preference payload: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"pref-1","init_point":"https://gateway.example/checkout/pref-1"}`))
	})

	output, err := client.CreatePreference(context.Background(), &PreferenceInput{
		Title:             "plano anual",
		AmountCents:       19990,
		ExternalReference: "user-1|sub-1|order-1",
	})
	if err != nil {
		t.Fatalf("create preference failed: %v", err)
	}
	if output.ID != "pref-1" || output.InitPoint != "https://gateway.example/checkout/pref-1" {
		t.Fatalf("unexpected preference output: %+v", output)
	}

	if gotBody["external_reference"] != "user-1|sub-1|order-1" {
		t.Fatalf("unexpected external reference: %v", gotBody["external_reference"])
	}
	items, ok := gotBody["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one preference item, got %v", gotBody["items"])
	}
	item := items[0].(map[string]any)
	if item["unit_price"] != 199.9 {
		t.Fatalf("expected unit price in currency units, got %v", item["unit_price"])
	}
	if item["currency_id"] != "BRL" {
		t.Fatalf("expected default BRL currency, got %v", item["currency_id"])
	}
}

func TestCreatePreferenceDefaultsEmptyTitle(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"id":"pref-2"}`))
	})

	if _, err := client.CreatePreference(context.Background(), &PreferenceInput{AmountCents: 100}); err != nil {
		t.Fatalf("create preference failed: %v", err)
	}
	item := gotBody["items"].([]any)[0].(map[string]any)
	if item["title"] != "assinatura" {
		t.Fatalf("expected default title, got %v", item["title"])
	}
}
