package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/deuceleague/appcore/internal/client"
)

type fakeBackend struct {
	mu        sync.Mutex
	responses []fakeStatus
	calls     int
}

type fakeStatus struct {
	resp *client.PaymentStatusResponse
	err  error
}

func (f *fakeBackend) PaymentStatus(ctx context.Context, orderID, userID string) (*client.PaymentStatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls >= len(f.responses) {
		f.calls++
		return nil, errors.New("no scripted response")
	}
	r := f.responses[f.calls]
	f.calls++
	return r.resp, r.err
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeBackend) OnboardingStatus(ctx context.Context, userID string) (*client.OnboardingStatusResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBackend) CreatePayment(ctx context.Context, req *client.CreatePaymentRequest) (*client.CreatePaymentResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBackend) UserPayments(ctx context.Context, userID string) (*client.UserPaymentsResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeBackend) Close() error { return nil }

func statusResp(status string) fakeStatus {
	return fakeStatus{resp: &client.PaymentStatusResponse{
		Success: true,
		Payment: client.Payment{OrderID: "ORD123", Status: status},
	}}
}

func newTestPoller(backend *fakeBackend, userID string) *Poller {
	return NewPoller(PollerConfig{
		Backend:  backend,
		OrderID:  "ORD123",
		UserID:   userID,
		Interval: 10 * time.Millisecond,
	})
}

func waitDone(t *testing.T, p *Poller) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not finish")
	}
}

func TestPollerPendingThenSuccess(t *testing.T) {
	backend := &fakeBackend{responses: []fakeStatus{
		statusResp("PENDING"),
		statusResp("SUCCESS"),
	}}
	p := newTestPoller(backend, "u1")

	var (
		mu          sync.Mutex
		transitions []State
	)
	p.Start(context.Background(), func(st State) {
		mu.Lock()
		transitions = append(transitions, st)
		mu.Unlock()
	})
	waitDone(t, p)

	mu.Lock()
	defer mu.Unlock()
	if len(transitions) != 1 || transitions[0] != StateSuccess {
		t.Errorf("transitions = %v, want exactly one success", transitions)
	}
	if backend.callCount() != 2 {
		t.Errorf("got %d status checks, want 2 (none after terminal)", backend.callCount())
	}
	if p.State() != StateSuccess {
		t.Errorf("State() = %v, want success", p.State())
	}
}

func TestPollerImmediateFailure(t *testing.T) {
	backend := &fakeBackend{responses: []fakeStatus{
		statusResp("FAILED"),
	}}
	p := newTestPoller(backend, "u1")

	got := make(chan State, 1)
	p.Start(context.Background(), func(st State) { got <- st })
	waitDone(t, p)

	if st := <-got; st != StateFailed {
		t.Errorf("transition = %v, want failed", st)
	}
	if backend.callCount() != 1 {
		t.Errorf("got %d status checks, want 1", backend.callCount())
	}
}

func TestPollerMissingIdentityFailsWithoutFetch(t *testing.T) {
	backend := &fakeBackend{}
	p := newTestPoller(backend, "")

	got := make(chan State, 1)
	p.Start(context.Background(), func(st State) { got <- st })
	waitDone(t, p)

	if st := <-got; st != StateFailed {
		t.Errorf("transition = %v, want failed", st)
	}
	if backend.callCount() != 0 {
		t.Errorf("status checked without an identity (%d calls)", backend.callCount())
	}
}

func TestPollerErrorsKeepPending(t *testing.T) {
	backend := &fakeBackend{responses: []fakeStatus{
		{err: errors.New("connection reset")},
		{resp: &client.PaymentStatusResponse{Success: false, Error: "order not found"}},
		statusResp("SUCCESS"),
	}}
	p := newTestPoller(backend, "u1")

	got := make(chan State, 1)
	p.Start(context.Background(), func(st State) { got <- st })
	waitDone(t, p)

	if st := <-got; st != StateSuccess {
		t.Errorf("transition = %v, want success after transient errors", st)
	}
	if backend.callCount() != 3 {
		t.Errorf("got %d status checks, want 3", backend.callCount())
	}
}

func TestPollerStop(t *testing.T) {
	backend := &fakeBackend{responses: []fakeStatus{
		statusResp("PENDING"),
		statusResp("PENDING"),
		statusResp("PENDING"),
	}}
	p := newTestPoller(backend, "u1")

	fired := make(chan State, 1)
	p.Start(context.Background(), func(st State) { fired <- st })
	time.Sleep(5 * time.Millisecond)
	p.Stop()
	p.Stop() // idempotent
	waitDone(t, p)

	select {
	case st := <-fired:
		t.Errorf("transition %v fired after Stop", st)
	default:
	}
}

func TestParseState(t *testing.T) {
	tests := []struct {
		raw  string
		want State
	}{
		{"SUCCESS", StateSuccess},
		{"success", StateSuccess},
		{"Failed", StateFailed},
		{"PENDING", StatePending},
		{"AUTHORIZED", StatePending},
		{"", StatePending},
	}
	for _, tt := range tests {
		if got := ParseState(tt.raw); got != tt.want {
			t.Errorf("ParseState(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestIsCheckoutReturn(t *testing.T) {
	tests := []struct {
		name string
		url  string
		base string
		want bool
	}{
		{"return endpoint", "https://api.deuceleague.example/api/payment/return?Status=0&RefNo=R1", "https://api.deuceleague.example", true},
		{"base with trailing slash", "https://api.deuceleague.example/api/payment/return", "https://api.deuceleague.example/", true},
		{"checkout page itself", "https://pay.provider.example/checkout/123", "https://api.deuceleague.example", false},
		{"other backend path", "https://api.deuceleague.example/api/payment/create", "https://api.deuceleague.example", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCheckoutReturn(tt.url, tt.base); got != tt.want {
				t.Errorf("IsCheckoutReturn(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestParseReturn(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		fallback string
		wantRef  string
		wantStat string
	}{
		{"refno present", "https://api.example/api/payment/return?Status=0&RefNo=REF42", "ORD123", "REF42", "0"},
		{"refno absent", "https://api.example/api/payment/return?Status=1", "ORD123", "ORD123", "1"},
		{"no params", "https://api.example/api/payment/return", "ORD123", "ORD123", ""},
		{"malformed url", "://not-a-url", "ORD123", "ORD123", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseReturn(tt.url, tt.fallback)
			if got.OrderRef != tt.wantRef {
				t.Errorf("OrderRef = %q, want %q", got.OrderRef, tt.wantRef)
			}
			if got.Status != tt.wantStat {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStat)
			}
		})
	}
}
