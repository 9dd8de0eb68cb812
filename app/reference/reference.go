// Package reference encodes the (owner, subscription, order) triple into the
// single opaque external-reference string carried round-trip through the
// payment gateway and echoed back in webhook notifications.
package reference

import "strings"

const Delimiter = "|"

type Reference struct {
	OwnerID        string
	SubscriptionID string
	OrderID        string
}

func Encode(ownerID, subscriptionID, orderID string) string {
	return ownerID + Delimiter + subscriptionID + Delimiter + orderID
}

// Decode splits an external reference back into its parts. It returns nil
// unless the input yields exactly three non-empty parts.
func Decode(ref string) *Reference {
	parts := strings.Split(ref, Delimiter)
	if len(parts) != 3 {
		return nil
	}
	for _, part := range parts {
		if part == "" {
			return nil
		}
	}
	return &Reference{
		OwnerID:        parts[0],
		SubscriptionID: parts[1],
		OrderID:        parts[2],
	}
}
