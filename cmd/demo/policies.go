package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comalice/bootnav"
)

var policyHelp = map[bootnav.TimingPolicy]string{
	bootnav.PolicyDisabled:    "no automatic initial navigation; the location listener is still installed",
	bootnav.PolicyBlocking:    "navigate before composition; hold activation until the first root is composed",
	bootnav.PolicyNonBlocking: "compose first, then navigate",
}

func newPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List the initial navigation policies",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			for _, p := range bootnav.Policies() {
				marker := " "
				if p == bootnav.DefaultPolicy {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-13s %s\n", marker, p, policyHelp[p])
			}
			fmt.Fprintln(out, "\naliases: enabledBlocking, enabledNonBlocking")
		},
	}
}
