package onboarding

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/deuceleague/appcore/internal/client"
	"github.com/deuceleague/appcore/internal/events"
)

// CheckerConfig configures a Checker. Zero values fall back to the shipped
// app's empirical constants.
type CheckerConfig struct {
	// StaleAfter is how old an incomplete snapshot may be before a
	// protected-route check forces a refresh. Default: 10 seconds.
	StaleAfter time.Duration

	// RetryDelay is the wait before the single retry when the first read
	// reports incomplete. Default: 1 second.
	RetryDelay time.Duration

	Publisher events.Publisher
	Logger    *slog.Logger
}

// Checker fetches and caches onboarding statuses. At most one fetch per user
// is in flight at a time; a Check while one is pending is a no-op that
// returns the cached snapshot. All fetch errors are swallowed here and
// resolved to the incomplete status, never surfaced to the gate.
type Checker struct {
	backend    client.Backend
	logger     *slog.Logger
	publisher  events.Publisher
	staleAfter time.Duration
	retryDelay time.Duration

	now   func() time.Time
	sleep func(context.Context, time.Duration) error

	mu       sync.Mutex
	statuses map[string]Status
	inFlight map[string]bool
	// gen is bumped on Invalidate so a fetch that was in flight when the
	// user logged out cannot resurrect the cache entry when it lands.
	gen map[string]uint64
}

// NewChecker creates a Checker over the given backend.
func NewChecker(backend client.Backend, cfg *CheckerConfig) *Checker {
	if cfg == nil {
		cfg = &CheckerConfig{}
	}
	c := &Checker{
		backend:    backend,
		logger:     cfg.Logger,
		publisher:  cfg.Publisher,
		staleAfter: cfg.StaleAfter,
		retryDelay: cfg.RetryDelay,
		now:        time.Now,
		sleep:      sleepCtx,
		statuses:   make(map[string]Status),
		inFlight:   make(map[string]bool),
		gen:        make(map[string]uint64),
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.publisher == nil {
		c.publisher = &events.NoopPublisher{}
	}
	if c.staleAfter == 0 {
		c.staleAfter = 10 * time.Second
	}
	if c.retryDelay == 0 {
		c.retryDelay = time.Second
	}
	return c
}

// Cached returns the cached snapshot for the user, if any.
func (c *Checker) Cached(userID string) (Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.statuses[userID]
	return s, ok
}

// InFlight reports whether a fetch for the user is currently pending.
func (c *Checker) InFlight(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[userID]
}

// Stale reports whether the cached snapshot (if any) has aged past the
// staleness window while still incomplete.
func (c *Checker) Stale(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.statuses[userID]
	if !ok {
		return false
	}
	return s.StaleAt(c.now(), c.staleAfter)
}

// Invalidate drops the cached snapshot for the user. Called on logout and
// before a forced refresh. A fetch already in flight for the user will
// complete but its result is discarded.
func (c *Checker) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.statuses, userID)
	c.gen[userID]++
}

// Check resolves the user's onboarding status, fetching from the backend
// unless a fetch is already pending. With force set, the cached snapshot is
// dropped first so the answer is fresh. Check never returns an error: any
// failure resolves to the incomplete status (fail closed).
func (c *Checker) Check(ctx context.Context, userID string, force bool) Status {
	c.mu.Lock()
	if c.inFlight[userID] {
		cached := c.statuses[userID]
		c.mu.Unlock()
		return cached
	}
	if force {
		delete(c.statuses, userID)
		c.gen[userID]++
	}
	c.inFlight[userID] = true
	gen := c.gen[userID]
	c.mu.Unlock()

	status, retried := c.fetch(ctx, userID)

	c.mu.Lock()
	delete(c.inFlight, userID)
	if c.gen[userID] == gen {
		c.statuses[userID] = status
	} else {
		c.logger.Debug("onboarding: discarding fetch result, cache invalidated mid-flight", "user_id", userID)
	}
	c.mu.Unlock()

	if err := c.publisher.Publish(ctx, events.TopicOnboardingChecked, events.OnboardingChecked{
		UserID:              userID,
		CompletedOnboarding: status.CompletedOnboarding,
		CompletedAssessment: status.HasCompletedAssessment,
		Forced:              force,
		Retried:             retried,
	}); err != nil {
		c.logger.Debug("onboarding: event publish failed", "err", err)
	}

	return status
}

// fetch performs the two-step read: one GET, and when that reports
// incomplete, exactly one retry after the configured delay. The retry
// absorbs the race where the backend's completion write lags a just-finished
// onboarding action. It is best-effort: an error on the retry falls through
// to the incomplete answer.
func (c *Checker) fetch(ctx context.Context, userID string) (Status, bool) {
	resp, err := c.backend.OnboardingStatus(ctx, userID)
	if err != nil {
		c.logger.Warn("onboarding: status fetch failed, assuming incomplete", "user_id", userID, "err", err)
		return incompleteAt(c.now()), false
	}
	if resp.CompletedOnboarding {
		return fromResponse(resp, c.now()), false
	}

	if err := c.sleep(ctx, c.retryDelay); err != nil {
		return incompleteAt(c.now()), false
	}
	retryResp, err := c.backend.OnboardingStatus(ctx, userID)
	if err != nil {
		c.logger.Warn("onboarding: status retry failed", "user_id", userID, "err", err)
		return incompleteAt(c.now()), true
	}
	return fromResponse(retryResp, c.now()), true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
