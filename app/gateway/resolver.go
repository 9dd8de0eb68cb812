package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

type ResourceKind string

const (
	KindPayment          ResourceKind = "payment"
	KindMerchantOrder    ResourceKind = "merchant_order"
	KindPaymentSearch    ResourceKind = "payment_search"
	KindPaymentSearchExt ResourceKind = "payment_search_ext"
)

type Resource struct {
	Kind ResourceKind
	Raw  json.RawMessage
}

type ResolverClient interface {
	GetPayment(ctx context.Context, id string) (json.RawMessage, error)
	GetMerchantOrder(ctx context.Context, id string) (json.RawMessage, error)
	SearchPaymentsByOrderID(ctx context.Context, orderID string) ([]json.RawMessage, error)
	SearchPaymentsByExternalReference(ctx context.Context, externalReference string) ([]json.RawMessage, error)
}

// Resolver maps an opaque external id onto a concrete gateway resource by
// probing lookups in a fixed order, short-circuiting on the first hit.
// A 404 at any step falls through to the next; every other error aborts.
type Resolver struct {
	client ResolverClient
}

func NewResolver(client ResolverClient) *Resolver {
	return &Resolver{client: client}
}

// Resolve returns (nil, nil) when every lookup misses.
func (r *Resolver) Resolve(ctx context.Context, externalID string) (*Resource, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, nil
	}

	payment, err := r.client.GetPayment(ctx, externalID)
	if err == nil {
		return &Resource{Kind: KindPayment, Raw: payment}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	merchantOrder, err := r.client.GetMerchantOrder(ctx, externalID)
	if err == nil {
		return &Resource{Kind: KindMerchantOrder, Raw: merchantOrder}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// Bare notification identifiers never resolve through the search
	// endpoints; probing them wastes calls and produces false negatives.
	if looksLikeBareNotificationID(externalID) {
		return nil, nil
	}

	results, err := r.client.SearchPaymentsByOrderID(ctx, externalID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if len(results) > 0 {
		return &Resource{Kind: KindPaymentSearch, Raw: results[0]}, nil
	}

	results, err = r.client.SearchPaymentsByExternalReference(ctx, externalID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if len(results) > 0 {
		return &Resource{Kind: KindPaymentSearchExt, Raw: results[0]}, nil
	}

	return nil, nil
}

func looksLikeBareNotificationID(id string) bool {
	return strings.Contains(id, ";") || strings.Contains(strings.ToLower(id), "utc")
}
