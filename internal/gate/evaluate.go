// Package gate decides, on every route or session change, whether the
// current screen may render or the user must be redirected into onboarding
// or out of a blocked auth page. Evaluate is the pure decision procedure;
// Gate wires it to the status checker, router, and event bus.
package gate

import (
	"github.com/deuceleague/appcore/internal/onboarding"
	"github.com/deuceleague/appcore/internal/route"
	"github.com/deuceleague/appcore/internal/session"
)

// Redirect targets.
const (
	TargetPersonalInfo = "/onboarding/personal-info"
	TargetGameSelect   = "/onboarding/game-select"
	TargetDashboard    = "/user-dashboard"
)

// Action is what the gate decided to do.
type Action int

const (
	// ActionAllow lets the route render.
	ActionAllow Action = iota
	// ActionDefer takes no action yet (auth loading or status unresolved).
	ActionDefer
	// ActionRedirect replaces the current route with Decision.Target.
	ActionRedirect
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionDefer:
		return "defer"
	case ActionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Input is everything Evaluate looks at. Status is nil when no snapshot is
// cached for the user. Stale means the cached snapshot aged past the
// staleness window while incomplete.
type Input struct {
	Path          string
	Session       session.Session
	Status        *onboarding.Status
	CheckInFlight bool
	Stale         bool

	// Refreshed marks a re-evaluation right after a forced fetch resolved,
	// so the protected-route refresh branch is not taken a second time.
	Refreshed bool
}

// Decision is the outcome of one evaluation. NeedsRefresh is set on a defer
// that requires a forced status fetch before the route can be decided.
type Decision struct {
	Action       Action
	Target       string
	Reason       string
	NeedsRefresh bool
}

// Evaluate runs the decision procedure. Rules are evaluated in order and the
// first match wins:
//
//  1. auth still loading: defer.
//  2. landing page: unauthenticated users stay; authenticated users are
//     routed by onboarding status once it is known.
//  3. protected route, authenticated: refresh the status when it is absent,
//     stale, or incomplete with no check running, then route by the flags.
//  4. auth-only page, authenticated: route away by onboarding status.
//  5. anything else renders.
//
// Unauthenticated users on protected routes are allowed through here; the
// session layer owns that redirect.
func Evaluate(in Input) Decision {
	if in.Session.Loading {
		return Decision{Action: ActionDefer, Reason: "auth loading"}
	}

	cat := route.Classify(in.Path)
	authed := in.Session.Authenticated()

	if cat.Has(route.Landing) {
		if !authed {
			return Decision{Action: ActionAllow, Reason: "unauthenticated on landing"}
		}
		if in.CheckInFlight || in.Status == nil {
			return Decision{Action: ActionDefer, Reason: "onboarding status unresolved"}
		}
		return redirectByStatus(*in.Status)
	}

	if cat.Has(route.Protected) && authed {
		needsRefresh := in.Status == nil || in.Stale ||
			(!in.Status.Complete() && !in.CheckInFlight && !in.Refreshed)
		if needsRefresh {
			return Decision{Action: ActionDefer, Reason: "onboarding status needs refresh", NeedsRefresh: true}
		}
		if !in.Status.CompletedOnboarding {
			return Decision{Action: ActionRedirect, Target: TargetPersonalInfo, Reason: "onboarding incomplete"}
		}
		if !in.Status.HasCompletedAssessment {
			return Decision{Action: ActionRedirect, Target: TargetGameSelect, Reason: "assessment incomplete"}
		}
		return Decision{Action: ActionAllow, Reason: "onboarding complete"}
	}

	if cat.Has(route.AuthOnly) && authed {
		if in.Status == nil {
			return Decision{Action: ActionDefer, Reason: "onboarding status unresolved"}
		}
		d := redirectByStatus(*in.Status)
		d.Reason = "auth page blocked: " + d.Reason
		return d
	}

	return Decision{Action: ActionAllow}
}

// redirectByStatus picks the destination for a user who must leave the
// current page: dashboard when fully onboarded, otherwise the first
// onboarding step they still owe.
func redirectByStatus(s onboarding.Status) Decision {
	switch {
	case s.Complete():
		return Decision{Action: ActionRedirect, Target: TargetDashboard, Reason: "onboarding complete"}
	case s.CompletedOnboarding:
		return Decision{Action: ActionRedirect, Target: TargetGameSelect, Reason: "assessment incomplete"}
	default:
		return Decision{Action: ActionRedirect, Target: TargetPersonalInfo, Reason: "onboarding incomplete"}
	}
}
