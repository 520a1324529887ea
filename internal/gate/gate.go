package gate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/deuceleague/appcore/internal/events"
	"github.com/deuceleague/appcore/internal/onboarding"
	"github.com/deuceleague/appcore/internal/route"
	"github.com/deuceleague/appcore/internal/session"
)

// Router performs route replacement on behalf of the gate.
type Router interface {
	Replace(path string)
}

// Config configures a Gate.
type Config struct {
	Checker  *onboarding.Checker
	Sessions session.Provider
	Router   Router

	Publisher events.Publisher
	Logger    *slog.Logger

	// RedirectDebounce is how long a scheduled redirect waits before firing,
	// giving concurrent state changes a moment to settle. Default: 100ms.
	RedirectDebounce time.Duration
}

// Gate evaluates every route change and issues debounced replace-redirects.
// It owns the per-session bookkeeping the decision procedure needs: the last
// visited route, the last seen user (to invalidate the status cache on
// logout), and the single pending redirect timer.
type Gate struct {
	checker   *onboarding.Checker
	sessions  session.Provider
	router    Router
	publisher events.Publisher
	logger    *slog.Logger
	debounce  time.Duration

	mu            sync.Mutex
	lastRoute     string
	lastUserID    string
	pending       *time.Timer
	pendingTarget string
	closed        bool
}

// New creates a Gate. Checker, Sessions, and Router are required.
func New(cfg Config) *Gate {
	g := &Gate{
		checker:   cfg.Checker,
		sessions:  cfg.Sessions,
		router:    cfg.Router,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		debounce:  cfg.RedirectDebounce,
	}
	if g.publisher == nil {
		g.publisher = &events.NoopPublisher{}
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.debounce == 0 {
		g.debounce = 100 * time.Millisecond
	}
	return g
}

// OnRouteChange evaluates the new route and acts on the decision: redirects
// are scheduled on the debounce timer, deferred statuses trigger the fetch
// they are waiting on. The returned Decision is the final one for this event.
func (g *Gate) OnRouteChange(ctx context.Context, path string) Decision {
	sess := g.sessions.Current()

	g.mu.Lock()
	prev := g.lastRoute
	prevUser := g.lastUserID
	g.lastRoute = path
	if !sess.Loading {
		g.lastUserID = sess.UserID
	}
	g.mu.Unlock()

	// Logout drops the previous user's cached status so a later login
	// starts from a fresh fetch.
	if prevUser != "" && sess.UserID != prevUser {
		g.checker.Invalidate(prevUser)
		g.logger.Info("gate: session changed, invalidated onboarding cache", "user_id", prevUser)
	}

	// Finishing onboarding lands on the dashboard with a cache that still
	// says incomplete. Drop it so the next check reads the fresh flags.
	if sess.Authenticated() && route.IsOnboarding(prev) && path == TargetDashboard {
		g.checker.Invalidate(sess.UserID)
		g.logger.Info("gate: onboarding finished, refreshing status", "user_id", sess.UserID)
	}

	dec := g.evaluate(ctx, path, sess)
	g.act(ctx, path, dec)
	return dec
}

// RefreshStatus drops the current user's cached status and fetches it again.
// Hosts call this after an onboarding step completes out-of-band.
func (g *Gate) RefreshStatus(ctx context.Context) {
	sess := g.sessions.Current()
	if !sess.Authenticated() {
		return
	}
	g.checker.Invalidate(sess.UserID)
	g.checker.Check(ctx, sess.UserID, false)
}

// Close cancels any pending redirect. The gate must not be used after Close.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	if g.pending != nil {
		g.pending.Stop()
		g.pending = nil
		g.pendingTarget = ""
	}
}

// evaluate runs the decision procedure, resolving at most one status fetch
// per event. When the first pass asks for a refresh (or the status is simply
// unknown), the fetch runs and the procedure is evaluated once more with the
// Refreshed flag set, so the second pass settles on a routing decision
// instead of asking again.
func (g *Gate) evaluate(ctx context.Context, path string, sess session.Session) Decision {
	dec := Evaluate(g.input(path, sess))
	if dec.Action != ActionDefer || !sess.Authenticated() {
		return dec
	}
	if g.checker.InFlight(sess.UserID) || sess.Loading {
		return dec
	}
	_, cached := g.checker.Cached(sess.UserID)
	if !dec.NeedsRefresh && cached {
		return dec
	}

	g.checker.Check(ctx, sess.UserID, dec.NeedsRefresh)

	in := g.input(path, sess)
	in.Refreshed = true
	return Evaluate(in)
}

func (g *Gate) input(path string, sess session.Session) Input {
	in := Input{Path: path, Session: sess}
	if !sess.Authenticated() {
		return in
	}
	if s, ok := g.checker.Cached(sess.UserID); ok {
		in.Status = &s
		in.Stale = g.checker.Stale(sess.UserID)
	}
	in.CheckInFlight = g.checker.InFlight(sess.UserID)
	return in
}

// act applies a decision: logging, events, and for redirects the debounced
// replace. Redundant redirects to the already-pending target are dropped; a
// redirect to a different target supersedes the pending one.
func (g *Gate) act(ctx context.Context, path string, dec Decision) {
	switch dec.Action {
	case ActionAllow:
		g.logger.Debug("gate: allow", "path", path, "reason", dec.Reason)
		g.publish(ctx, events.TopicNavAllowed, events.NavAllowed{Path: path})

	case ActionDefer:
		g.logger.Debug("gate: defer", "path", path, "reason", dec.Reason)
		g.publish(ctx, events.TopicNavDeferred, events.NavDeferred{Path: path, Reason: dec.Reason})

	case ActionRedirect:
		g.scheduleRedirect(path, dec.Target)
		g.logger.Info("gate: redirect", "from", path, "to", dec.Target, "reason", dec.Reason)
		g.publish(ctx, events.TopicNavRedirected, events.NavRedirected{From: path, To: dec.Target, Reason: dec.Reason})
	}
}

func (g *Gate) scheduleRedirect(from, target string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	if g.pending != nil {
		if g.pendingTarget == target {
			return
		}
		// Newer decision wins.
		g.pending.Stop()
	}
	g.pendingTarget = target
	g.pending = time.AfterFunc(g.debounce, func() {
		g.mu.Lock()
		if g.closed || g.pendingTarget != target {
			g.mu.Unlock()
			return
		}
		g.pending = nil
		g.pendingTarget = ""
		g.mu.Unlock()
		g.router.Replace(target)
	})
}

func (g *Gate) publish(ctx context.Context, topic string, event any) {
	if err := g.publisher.Publish(ctx, topic, event); err != nil {
		g.logger.Debug("gate: event publish failed", "topic", topic, "err", err)
	}
}
