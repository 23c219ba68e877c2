package main

import (
	"context"
	"strings"

	"github.com/alfredjeanlab/vendorwatch/internal/client"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events [id]",
	Short: "List risk events, or show one by ID",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			event, err := api.GetRiskEvent(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				printJSON(event)
			} else {
				printEventTable(event)
			}
			return nil
		}

		vendorID, _ := cmd.Flags().GetString("vendor")
		severity, _ := cmd.Flags().GetString("severity")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		req := &client.ListEventsRequest{
			VendorID: vendorID,
			Limit:    limit,
			Offset:   offset,
		}
		if severity != "" {
			req.Severity = strings.Split(severity, ",")
		}

		resp, err := api.ListRiskEvents(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(resp.Events)
		} else {
			printEventListTable(resp.Events, resp.Total)
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().String("vendor", "", "filter by vendor ID")
	eventsCmd.Flags().String("severity", "", "filter by severity (comma-separated: low,medium,high)")
	eventsCmd.Flags().Int("limit", 50, "maximum events to return")
	eventsCmd.Flags().Int("offset", 0, "offset into the result set")
}
