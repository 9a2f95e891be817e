package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "demo",
		Short: "Bootstrap and initial navigation playground",
		Long: `demo composes a simulated application with an in-memory router and
shows how the initial navigation is ordered against composition under
each timing policy.

Configuration is read from --config, then BOOTNAV_* environment
variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "config file (yaml)")

	root.AddCommand(newRunCmd(), newPoliciesCmd())
	return root
}
