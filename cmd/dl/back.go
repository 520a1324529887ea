package main

import (
	"github.com/spf13/cobra"

	"github.com/deuceleague/appcore/internal/backnav"
)

var backCmd = &cobra.Command{
	Use:   "back <path>...",
	Short: "Simulate a hardware back press",
	Long: `Visit the given routes in order, then simulate a hardware back press on
the last one and report whether it would be swallowed, navigate back, or
fall through to the platform (usually exiting the app).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interceptor := backnav.New(backnav.Config{
			Sessions:    currentSession(),
			Router:      recordingRouter{},
			Publisher:   publisher,
			Logger:      logger,
			HistorySize: cfg.HistorySize,
		})
		for _, path := range args {
			interceptor.OnRouteChange(path)
		}

		res := interceptor.HandleBackPress(cmd.Context())
		printBackResult(args[len(args)-1], res, interceptor.Trail())
		return nil
	},
}
