package main

import (
	"context"

	"github.com/spf13/cobra"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots <vendor-id>",
	Short: "List stored snapshots for a vendor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		resp, err := api.ListSnapshots(context.Background(), args[0], limit, offset)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(resp.Snapshots)
		} else {
			printSnapshotListTable(resp.Snapshots, resp.Total)
		}
		return nil
	},
}

func init() {
	snapshotsCmd.Flags().Int("limit", 20, "maximum snapshots to return")
	snapshotsCmd.Flags().Int("offset", 0, "offset into the result set")
}
