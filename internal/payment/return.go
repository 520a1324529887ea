package payment

import (
	"net/url"
	"strings"
)

// ReturnPath is the backend endpoint the hosted checkout redirects to when
// the payment provider is done with the user.
const ReturnPath = "/api/payment/return"

// IsCheckoutReturn reports whether the in-app web view has landed on the
// backend's payment-return endpoint, meaning the checkout handoff is over.
func IsCheckoutReturn(currentURL, backendBase string) bool {
	base := strings.TrimRight(backendBase, "/")
	return strings.HasPrefix(currentURL, base+ReturnPath)
}

// ReturnParams are the provider-supplied parameters on the return URL.
type ReturnParams struct {
	// Status is the provider's raw status string, informational only; the
	// poller decides the real outcome.
	Status string
	// OrderRef identifies the order for the status poll: the provider's
	// RefNo when present, otherwise the original order id.
	OrderRef string
}

// ParseReturn extracts the return parameters from the redirect URL. On a
// malformed URL the fallback order id is used so the poll can still run.
func ParseReturn(rawURL, fallbackOrderID string) ReturnParams {
	params := ReturnParams{OrderRef: fallbackOrderID}
	u, err := url.Parse(rawURL)
	if err != nil {
		return params
	}
	q := u.Query()
	params.Status = q.Get("Status")
	if ref := q.Get("RefNo"); ref != "" {
		params.OrderRef = ref
	}
	return params
}
