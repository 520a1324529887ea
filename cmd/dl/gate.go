package main

import (
	"github.com/spf13/cobra"

	"github.com/deuceleague/appcore/internal/gate"
)

// recordingRouter satisfies the router interfaces without navigating
// anywhere; the CLI reports decisions instead of acting on them.
type recordingRouter struct{}

func (recordingRouter) Replace(path string) {}
func (recordingRouter) Back()               {}

var gateCmd = &cobra.Command{
	Use:   "gate <path>",
	Short: "Evaluate the navigation gate for a single route",
	Long: `Evaluate the navigation gate for a single route, fetching the onboarding
status from the backend when the decision needs it. Pass --user to simulate
an authenticated session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := gate.New(gate.Config{
			Checker:          newChecker(),
			Sessions:         currentSession(),
			Router:           recordingRouter{},
			Publisher:        publisher,
			Logger:           logger,
			RedirectDebounce: cfg.RedirectDebounce,
		})
		defer g.Close()

		dec := g.OnRouteChange(cmd.Context(), args[0])
		printDecision(args[0], dec)
		return nil
	},
}
