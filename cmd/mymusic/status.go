package main

import (
	"github.com/spf13/cobra"
)

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show record counts, the last transaction time and uptime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds := a.library(cmd.Context())
			return writeJSON(cmd.OutOrStdout(), ds.Status(cmd.Context()))
		},
	}
}
