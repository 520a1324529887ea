// Package events publishes navigation and payment lifecycle events for
// analytics and diagnostics. Publishing is best-effort: the gate and poller
// never block or fail on event delivery, and the no-op publisher is the
// default when no bus is configured.
package events

import "context"

// Event topic constants.
const (
	// Navigation gate decisions.
	TopicNavRedirected = "league.nav.redirected"
	TopicNavDeferred   = "league.nav.deferred"
	TopicNavAllowed    = "league.nav.allowed"

	// Back-press interception.
	TopicBackIntercepted = "league.nav.back"

	// Onboarding status checks.
	TopicOnboardingChecked = "league.onboarding.checked"

	// Payment lifecycle.
	TopicPaymentCreated = "league.payment.created"
	TopicPaymentStatus  = "league.payment.status"
)

// NavRedirected is published when the gate issues (or schedules) a redirect.
type NavRedirected struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason,omitempty"`
}

// NavDeferred is published when the gate takes no action pending auth or an
// onboarding status fetch.
type NavDeferred struct {
	Path   string `json:"path"`
	Reason string `json:"reason,omitempty"`
}

// NavAllowed is published when a gated route is allowed to render.
type NavAllowed struct {
	Path string `json:"path"`
}

// BackIntercepted is published when a hardware back press is handled.
type BackIntercepted struct {
	Route  string `json:"route"`
	Result string `json:"result"` // "not-handled", "handled", "native-back"
}

// OnboardingChecked is published after a status fetch resolves.
type OnboardingChecked struct {
	UserID              string `json:"user_id"`
	CompletedOnboarding bool   `json:"completed_onboarding"`
	CompletedAssessment bool   `json:"completed_assessment"`
	Forced              bool   `json:"forced"`
	Retried             bool   `json:"retried"`
}

// PaymentCreated is published when a checkout is opened.
type PaymentCreated struct {
	OrderID string  `json:"order_id"`
	UserID  string  `json:"user_id"`
	Amount  float64 `json:"amount"`
}

// PaymentStatus is published when the poller observes a status change.
type PaymentStatus struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers raw event payloads on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}
