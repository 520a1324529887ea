// Package payment bridges the externally hosted checkout page back into the
// app: it detects the return redirect and polls the backend until the order
// reaches a terminal state.
package payment

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/deuceleague/appcore/internal/client"
	"github.com/deuceleague/appcore/internal/events"
)

// State is the poller's view of an order.
type State int

const (
	StatePending State = iota
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further checks are needed.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed
}

// ParseState maps a backend status string to a State. Matching is
// case-insensitive and anything unrecognized stays pending, so an unexpected
// intermediate status keeps the poller alive rather than faking an outcome.
func ParseState(raw string) State {
	switch strings.ToLower(raw) {
	case "success":
		return StateSuccess
	case "failed":
		return StateFailed
	default:
		return StatePending
	}
}

// PollerConfig configures a Poller. One Poller watches one order, like the
// pending screen it stands in for.
type PollerConfig struct {
	Backend client.Backend
	OrderID string
	UserID  string

	// Interval between status checks after the immediate first one.
	// Default: 10 seconds.
	Interval time.Duration

	Publisher events.Publisher
	Logger    *slog.Logger
}

// Poller repeatedly checks an order's status until it is terminal or the
// poller is stopped. The transition callback fires exactly once.
type Poller struct {
	backend   client.Backend
	orderID   string
	userID    string
	interval  time.Duration
	publisher events.Publisher
	logger    *slog.Logger

	mu    sync.Mutex
	state State

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewPoller creates a Poller for one order.
func NewPoller(cfg PollerConfig) *Poller {
	p := &Poller{
		backend:   cfg.Backend,
		orderID:   cfg.OrderID,
		userID:    cfg.UserID,
		interval:  cfg.Interval,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	if p.interval == 0 {
		p.interval = 10 * time.Second
	}
	if p.publisher == nil {
		p.publisher = &events.NoopPublisher{}
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Start begins polling in a goroutine: one immediate check, then one per
// interval while the order stays pending. onTransition is called exactly
// once, with the terminal state, unless the poller is stopped first.
func (p *Poller) Start(ctx context.Context, onTransition func(State)) {
	go p.run(ctx, onTransition)
}

// Stop ends polling without a transition. Safe to call multiple times and
// after a terminal state.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// Done is closed when the polling goroutine has exited.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

// State returns the most recently observed state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) run(ctx context.Context, onTransition func(State)) {
	defer close(p.done)

	// No identity, no status check.
	if p.userID == "" {
		p.logger.Warn("payment: no user id for status check, failing", "order_id", p.orderID)
		p.transition(ctx, StateFailed, onTransition)
		return
	}

	if st := p.check(ctx); st.Terminal() {
		p.transition(ctx, st, onTransition)
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			if st := p.check(ctx); st.Terminal() {
				p.transition(ctx, st, onTransition)
				return
			}
		}
	}
}

// check fetches the order status once. Errors and unsuccessful responses
// leave the order pending; the next tick tries again.
func (p *Poller) check(ctx context.Context) State {
	resp, err := p.backend.PaymentStatus(ctx, p.orderID, p.userID)
	if err != nil {
		p.logger.Warn("payment: status check failed", "order_id", p.orderID, "err", err)
		return StatePending
	}
	if !resp.Success {
		p.logger.Warn("payment: status check rejected", "order_id", p.orderID, "backend_error", resp.Error)
		return StatePending
	}
	st := ParseState(resp.Payment.Status)
	p.logger.Debug("payment: status", "order_id", p.orderID, "status", st.String())
	return st
}

func (p *Poller) transition(ctx context.Context, st State, onTransition func(State)) {
	p.mu.Lock()
	p.state = st
	p.mu.Unlock()

	p.logger.Info("payment: terminal state", "order_id", p.orderID, "status", st.String())
	if err := p.publisher.Publish(ctx, events.TopicPaymentStatus, events.PaymentStatus{
		OrderID: p.orderID,
		Status:  st.String(),
	}); err != nil {
		p.logger.Debug("payment: event publish failed", "err", err)
	}
	if onTransition != nil {
		onTransition(st)
	}
}
