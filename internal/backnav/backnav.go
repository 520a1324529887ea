// Package backnav handles the hardware back press. Some routes swallow the
// press, some hand it to the platform (which usually exits the app), and the
// rest walk the bounded route history, refusing to land an authenticated
// user back on a blocked login or register screen.
package backnav

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/deuceleague/appcore/internal/events"
	"github.com/deuceleague/appcore/internal/history"
	"github.com/deuceleague/appcore/internal/route"
	"github.com/deuceleague/appcore/internal/session"
)

// Router performs native back navigation on behalf of the interceptor.
type Router interface {
	Back()
}

// Result is what the platform should do with the back press.
type Result int

const (
	// ResultNotHandled hands the press to the platform default, which on
	// the dashboard and login screens exits the app.
	ResultNotHandled Result = iota
	// ResultHandled consumes the press without navigating.
	ResultHandled
	// ResultNativeBack consumes the press after performing router.Back().
	ResultNativeBack
)

func (r Result) String() string {
	switch r {
	case ResultNotHandled:
		return "not-handled"
	case ResultHandled:
		return "handled"
	case ResultNativeBack:
		return "native-back"
	default:
		return "unknown"
	}
}

// Config configures an Interceptor.
type Config struct {
	Sessions session.Provider
	Router   Router

	Publisher events.Publisher
	Logger    *slog.Logger

	// HistorySize bounds the route trail. Default: history.DefaultCapacity.
	HistorySize int

	// PopDelay is how long after a back navigation the trail's top entry is
	// popped, letting the navigation settle first. Default: 100ms.
	PopDelay time.Duration
}

// Interceptor owns the route trail and decides each back press.
type Interceptor struct {
	sessions  session.Provider
	router    Router
	publisher events.Publisher
	logger    *slog.Logger
	trail     *history.Ring
	popDelay  time.Duration

	mu      sync.Mutex
	current string
}

// New creates an Interceptor. Sessions and Router are required.
func New(cfg Config) *Interceptor {
	i := &Interceptor{
		sessions:  cfg.Sessions,
		router:    cfg.Router,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		trail:     history.New(cfg.HistorySize),
		popDelay:  cfg.PopDelay,
	}
	if i.publisher == nil {
		i.publisher = &events.NoopPublisher{}
	}
	if i.logger == nil {
		i.logger = slog.Default()
	}
	if i.popDelay == 0 {
		i.popDelay = 100 * time.Millisecond
	}
	return i
}

// OnRouteChange records a visited route in the trail.
func (i *Interceptor) OnRouteChange(path string) {
	i.mu.Lock()
	i.current = path
	i.mu.Unlock()
	i.trail.Push(path)
}

// Trail returns a copy of the recorded route history, oldest first.
func (i *Interceptor) Trail() []string {
	return i.trail.Routes()
}

// HandleBackPress decides the current back press:
//
//  1. back-blocked routes: dashboard and login hand the press to the
//     platform (exit), the landing page swallows it.
//  2. onboarding pages navigate back natively so the flow steps unwind.
//  3. otherwise walk the trail: a press that would land an authenticated
//     user on a blocked auth page is swallowed; any other previous entry
//     gets a native back, with the trail popped shortly after.
//  4. an empty trail hands the press to the platform.
func (i *Interceptor) HandleBackPress(ctx context.Context) Result {
	i.mu.Lock()
	current := i.current
	i.mu.Unlock()

	result := i.decide(current)

	i.logger.Debug("backnav: back press", "route", current, "result", result.String())
	if err := i.publisher.Publish(ctx, events.TopicBackIntercepted, events.BackIntercepted{
		Route:  current,
		Result: result.String(),
	}); err != nil {
		i.logger.Debug("backnav: event publish failed", "err", err)
	}
	return result
}

func (i *Interceptor) decide(current string) Result {
	if route.IsNoBack(current) {
		if current == "/user-dashboard" || current == "/login" {
			return ResultNotHandled
		}
		return ResultHandled
	}

	if route.IsOnboarding(current) {
		i.router.Back()
		return ResultNativeBack
	}

	if i.trail.Len() > 1 {
		prev, _ := i.trail.Previous()
		if i.sessions.Current().Authenticated() && route.IsAuthOnly(prev) {
			i.logger.Info("backnav: blocked back navigation to auth page", "from", current, "to", prev)
			return ResultHandled
		}
		i.router.Back()
		time.AfterFunc(i.popDelay, func() { i.trail.Pop() })
		return ResultNativeBack
	}

	return ResultNotHandled
}
