// Package client provides a transport-agnostic interface for the DeuceLeague
// backend and an HTTP/JSON implementation that talks to its REST API. The
// backend owns all business logic; this client only moves requests and
// responses, so callers (the onboarding checker, the payment poller) decide
// what a failure means.
package client

import (
	"context"
	"encoding/json"
	"time"
)

// Backend is the interface the app core uses to talk to the league backend.
// It is implemented by HTTPClient and can be backed by any transport.
type Backend interface {
	// OnboardingStatus fetches the onboarding completion flags for a user.
	// Non-2xx responses (including 404) are returned as *APIError.
	OnboardingStatus(ctx context.Context, userID string) (*OnboardingStatusResponse, error)

	// CreatePayment starts a checkout for a season registration and returns
	// the hosted payment page URL and order id.
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error)

	// PaymentStatus fetches the current state of an order.
	PaymentStatus(ctx context.Context, orderID, userID string) (*PaymentStatusResponse, error)

	// UserPayments lists a user's past payments.
	UserPayments(ctx context.Context, userID string) (*UserPaymentsResponse, error)

	// Lifecycle
	Close() error
}

// OnboardingStatusResponse mirrors GET /api/onboarding/status/{userId}.
// hasCompletedAssessment is optional on the wire; absent decodes to false
// and the onboarding package applies the completed-implies-assessed rule.
type OnboardingStatusResponse struct {
	CompletedOnboarding    bool `json:"completedOnboarding"`
	HasCompletedAssessment bool `json:"hasCompletedAssessment"`
}

// CreatePaymentRequest holds parameters for POST /api/payment/create.
type CreatePaymentRequest struct {
	SeasonID      string  `json:"seasonId"`
	LeagueID      string  `json:"leagueId"`
	Amount        float64 `json:"amount"`
	BillDesc      string  `json:"billDesc"`
	UserID        string  `json:"userId"`
	CorrelationID string  `json:"correlationId,omitempty"`
}

// CreatePaymentResponse is the response from CreatePayment.
type CreatePaymentResponse struct {
	Success    bool    `json:"success"`
	PaymentURL string  `json:"paymentUrl"`
	OrderID    string  `json:"orderId"`
	Amount     float64 `json:"amount"`
	Error      string  `json:"error,omitempty"`
}

// Payment is a single payment record as reported by the backend.
type Payment struct {
	ID            string            `json:"id"`
	OrderID       string            `json:"orderId"`
	Amount        float64           `json:"amount"`
	Status        string            `json:"status"`
	PaidAt        *time.Time        `json:"paidAt,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	Registrations []json.RawMessage `json:"registrations,omitempty"`
}

// PaymentStatusResponse is the response from PaymentStatus.
type PaymentStatusResponse struct {
	Success bool    `json:"success"`
	Payment Payment `json:"payment"`
	Error   string  `json:"error,omitempty"`
}

// UserPaymentsResponse is the response from UserPayments.
type UserPaymentsResponse struct {
	Success  bool      `json:"success"`
	Payments []Payment `json:"payments"`
}
