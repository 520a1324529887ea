// Package onboarding tracks whether a user has finished the first-run flow.
// The backend owns the flags; this package caches them per user, keeps the
// cache honest about its age, and converts every fetch failure into the
// safe answer: incomplete, so the user is routed back into onboarding
// rather than granted access they might not have earned.
package onboarding

import (
	"time"

	"github.com/deuceleague/appcore/internal/client"
)

// Status is a point-in-time snapshot of a user's onboarding flags.
type Status struct {
	CompletedOnboarding    bool
	HasCompletedAssessment bool
	FetchedAt              time.Time
}

// Complete reports whether the user can access protected routes.
func (s Status) Complete() bool {
	return s.CompletedOnboarding && s.HasCompletedAssessment
}

// StaleAt reports whether the snapshot is too old to trust. A complete
// status never goes stale: completion is monotonic, only the incomplete
// answer can be outdated by a concurrent onboarding write.
func (s Status) StaleAt(now time.Time, window time.Duration) bool {
	if s.Complete() || window <= 0 {
		return false
	}
	return s.FetchedAt.IsZero() || now.Sub(s.FetchedAt) > window
}

// Normalize applies the completed-implies-assessed rule: a user who finished
// onboarding made a final call on the assessment (took it or skipped it), so
// the backend's assessment flag is overridden. Idempotent.
func (s Status) Normalize() Status {
	if s.CompletedOnboarding {
		s.HasCompletedAssessment = true
	}
	return s
}

// fromResponse converts a backend response into a normalized snapshot.
func fromResponse(resp *client.OnboardingStatusResponse, now time.Time) Status {
	if resp.CompletedOnboarding {
		return Status{CompletedOnboarding: true, HasCompletedAssessment: true, FetchedAt: now}
	}
	return Status{FetchedAt: now}
}

// incompleteAt is the fail-closed default for any fetch error.
func incompleteAt(now time.Time) Status {
	return Status{FetchedAt: now}
}
