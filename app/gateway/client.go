package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.mercadopago.com"

type Config struct {
	AccessToken     string
	PublicKey       string
	BaseURL         string
	CurrencyID      string
	NotificationURL string
	SuccessURL      string
	FailureURL      string
	PendingURL      string
	HTTPTimeout     time.Duration
}

// Client is a thin wrapper over the payment gateway's REST API. Every call
// carries bearer-token auth and is bounded by the configured timeout.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient fails when no access token is configured; a missing token is a
// startup condition, not a per-call error.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, errors.New("gateway access token is not configured")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if strings.TrimSpace(cfg.CurrencyID) == "" {
		cfg.CurrencyID = "BRL"
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.HTTPTimeout},
	}, nil
}

func (c *Client) GetPayment(ctx context.Context, id string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(id), nil)
}

func (c *Client) GetMerchantOrder(ctx context.Context, id string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/merchant_orders/"+url.PathEscape(id), nil)
}

func (c *Client) SearchPaymentsByOrderID(ctx context.Context, orderID string) ([]json.RawMessage, error) {
	return c.search(ctx, url.Values{"order.id": []string{orderID}})
}

func (c *Client) SearchPaymentsByExternalReference(ctx context.Context, externalReference string) ([]json.RawMessage, error) {
	return c.search(ctx, url.Values{"external_reference": []string{externalReference}})
}

func (c *Client) search(ctx context.Context, query url.Values) ([]json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/payments/search?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

type PreferenceInput struct {
	Title             string
	AmountCents       int64
	ExternalReference string
}

type PreferenceOutput struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// CreatePreference registers a hosted-checkout preference carrying the
// external reference that webhook notifications will echo back.
func (c *Client) CreatePreference(ctx context.Context, input *PreferenceInput) (*PreferenceOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "assinatura"
	}

	payload := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"title":       title,
				"quantity":    1,
				"currency_id": c.cfg.CurrencyID,
				"unit_price":  float64(input.AmountCents) / 100,
			},
		},
		"external_reference": input.ExternalReference,
		"back_urls": map[string]string{
			"success": c.cfg.SuccessURL,
			"failure": c.cfg.FailureURL,
			"pending": c.cfg.PendingURL,
		},
		"auto_return": "approved",
	}
	if strings.TrimSpace(c.cfg.NotificationURL) != "" {
		payload["notification_url"] = c.cfg.NotificationURL
	}

	body, err := c.do(ctx, http.MethodPost, "/checkout/preferences", payload)
	if err != nil {
		return nil, err
	}

	var output PreferenceOutput
	if err := json.Unmarshal(body, &output); err != nil {
		return nil, err
	}
	return &output, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, &GatewayError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}
