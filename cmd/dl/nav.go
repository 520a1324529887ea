package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deuceleague/appcore/internal/backnav"
	"github.com/deuceleague/appcore/internal/gate"
	"github.com/deuceleague/appcore/internal/ui"
)

var navCmd = &cobra.Command{
	Use:   "nav <path>...",
	Short: "Walk a sequence of routes through the gate",
	Long: `Walk a sequence of routes through the navigation gate, printing the
decision for each step and the resulting back-navigation trail. Useful for
reproducing redirect behavior without a device.`,
	Args: cobra.MinimumNArgs(1),
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

		interceptor := backnav.New(backnav.Config{
			Sessions:    currentSession(),
			Router:      recordingRouter{},
			Publisher:   publisher,
			Logger:      logger,
			HistorySize: cfg.HistorySize,
		})

		if jsonOutput {
			var steps []decisionOutput
			for _, path := range args {
				dec := g.OnRouteChange(cmd.Context(), path)
				interceptor.OnRouteChange(path)
				steps = append(steps, decisionToOutput(path, dec))
			}
			printJSON(struct {
				Steps []decisionOutput `json:"steps"`
				Trail []string         `json:"trail"`
			}{steps, interceptor.Trail()})
			return nil
		}

		for _, path := range args {
			dec := g.OnRouteChange(cmd.Context(), path)
			interceptor.OnRouteChange(path)
			printDecision(path, dec)
		}
		fmt.Printf("\ntrail: %s\n", ui.RenderMuted(strings.Join(interceptor.Trail(), "  ")))
		return nil
	},
}
