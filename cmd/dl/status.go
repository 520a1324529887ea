package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [userId]",
	Short: "Fetch a user's onboarding status",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		uid := userID
		if len(args) == 1 {
			uid = args[0]
		}
		if uid == "" {
			return fmt.Errorf("no user id: pass one as an argument or via --user")
		}
		force, _ := cmd.Flags().GetBool("force")

		st := newChecker().Check(cmd.Context(), uid, force)
		printStatus(uid, st)
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("force", false, "drop the cached status before fetching")
}
