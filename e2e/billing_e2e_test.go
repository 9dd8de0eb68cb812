//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

const defaultBillingHTTPBase = "http://localhost:48080"

type httpClient struct {
	baseURL string
	client  *http.Client
}

func newHTTPClient(baseURL string) *httpClient {
	return &httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpClient) doJSON(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal failed: %v", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		t.Fatalf("new request failed: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", fmt.Sprintf("e2e-http-%d", time.Now().UnixNano()))

	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response failed: %v", err)
	}

	return resp, bodyBytes
}

func waitForHTTP(baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}
	for time.Now().Before(deadline) {
		req, _ := http.NewRequest(http.MethodGet, baseURL+"/health", nil)
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("http service not ready at %s", baseURL)
}

func TestBillingE2E(t *testing.T) {
	httpBase := os.Getenv("BILLING_HTTP_URL")
	if httpBase == "" {
		httpBase = defaultBillingHTTPBase
	}

	if err := waitForHTTP(httpBase, 30*time.Second); err != nil {
		t.Fatalf("http not ready: %v", err)
	}

	client := newHTTPClient(httpBase)

	t.Run("HTTPMissingRequestID", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, httpBase+"/orders", bytes.NewReader([]byte(`{}`)))
		if err != nil {
			t.Fatalf("new request failed: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing x-request-id, got %d", resp.StatusCode)
		}
	})

	t.Run("HTTPValidationCreateOrder", func(t *testing.T) {
		resp, body := client.doJSON(t, http.MethodPost, "/orders", map[string]any{})
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid create request, got %d body=%s", resp.StatusCode, string(body))
		}
	})

	t.Run("HTTPGetOrderNotFound", func(t *testing.T) {
		resp, body := client.doJSON(t, http.MethodGet, "/orders/missing-order?userId=u-e2e&assinaturaId=s-e2e", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d body=%s", resp.StatusCode, string(body))
		}
	})

	t.Run("WebhookEmptyNotification", func(t *testing.T) {
		resp, body := client.doJSON(t, http.MethodPost, "/webhooks/gateway", map[string]any{})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 for empty notification, got %d body=%s", resp.StatusCode, string(body))
		}
		var payload struct {
			OK      bool   `json:"ok"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal webhook response failed: %v body=%s", err, string(body))
		}
		if !payload.OK {
			t.Fatalf("expected ok=true, got %s", string(body))
		}
	})

	t.Run("WebhookQueryOnlyNotification", func(t *testing.T) {
		// Bare notification id with a semicolon must be acknowledged
		// without a lookup against the gateway.
		resp, body := client.doJSON(t, http.MethodPost, "/webhooks/gateway?topic=payment&id=123;utc", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", resp.StatusCode, string(body))
		}
	})
}
