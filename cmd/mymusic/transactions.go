package main

import (
	"github.com/spf13/cobra"
)

func newTransactionsCommand(a *app) *cobra.Command {
	var since string

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Print the transaction log from a point in time",
		Long: `Print every transaction log entry whose time is at or after --since,
oldest first. Times compare as strings, so any prefix of the stored layout
works:

	mymusic transactions --since 2024-06
	mymusic transactions --since 2024-06-01T12:00:00`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := a.requireDatastore(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := ds.TransactionsSince(cmd.Context(), since)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "lower bound, inclusive (default: the whole log)")
	return cmd
}
