// Package route classifies navigation paths into the categories the
// navigation gate and the back-press interceptor care about. Classification
// is pure and stateless; a path may belong to several categories at once
// (e.g. "/user-dashboard" is both protected and back-blocked), so the result
// is a bit set rather than a single value.
package route

import "strings"

// Category is a bit set of route categories.
type Category uint8

const (
	// Landing is exactly "/".
	Landing Category = 1 << iota
	// Protected routes require authentication and completed onboarding.
	Protected
	// AuthOnly routes are login/register style pages blocked once signed in.
	AuthOnly
	// Onboarding routes belong to the first-run flow.
	Onboarding
	// NoBack routes intercept the hardware back press.
	NoBack
)

// authOnlyPrefixes are matched by prefix: "/login/otp" is still auth-only.
var authOnlyPrefixes = []string{"/login", "/register", "/resetPassword", "/verifyEmail"}

var protectedPrefixes = []string{"/user-dashboard", "/profile", "/edit-profile", "/settings", "/match-history"}

// noBackRoutes are matched exactly.
var noBackRoutes = []string{"/user-dashboard", "/login", "/"}

// Classify returns every category the path belongs to.
func Classify(path string) Category {
	var c Category
	if path == "/" {
		c |= Landing
	}
	if hasAnyPrefix(path, authOnlyPrefixes) {
		c |= AuthOnly
	}
	if hasAnyPrefix(path, protectedPrefixes) {
		c |= Protected
	}
	if strings.Contains(path, "/onboarding/") {
		c |= Onboarding
	}
	for _, r := range noBackRoutes {
		if path == r {
			c |= NoBack
			break
		}
	}
	return c
}

// Has reports whether the set contains all categories in want.
func (c Category) Has(want Category) bool { return c&want == want }

func IsLanding(path string) bool    { return Classify(path).Has(Landing) }
func IsProtected(path string) bool  { return Classify(path).Has(Protected) }
func IsAuthOnly(path string) bool   { return Classify(path).Has(AuthOnly) }
func IsOnboarding(path string) bool { return Classify(path).Has(Onboarding) }
func IsNoBack(path string) bool     { return Classify(path).Has(NoBack) }

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
