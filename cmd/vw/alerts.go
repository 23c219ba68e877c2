package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/vendorwatch/internal/client"
	"github.com/alfredjeanlab/vendorwatch/internal/model"
	"github.com/spf13/cobra"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show or change which severities trigger alerts",
}

var alertsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configured alert severities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := api.GetAlertSettings(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(settings)
			return nil
		}
		if len(settings.Severities) == 0 {
			fmt.Println("alerts disabled (no severities configured)")
			return nil
		}
		names := make([]string, len(settings.Severities))
		for i, s := range settings.Severities {
			names[i] = string(s)
		}
		fmt.Printf("alerting on: %s\n", strings.Join(names, ", "))
		return nil
	},
}

var alertsSetCmd = &cobra.Command{
	Use:   "set <severities>",
	Short: "Set alert severities (comma-separated: low,medium,high)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var severities []model.Severity
		for _, s := range strings.Split(args[0], ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			severities = append(severities, model.Severity(s))
		}

		err := api.PutAlertSettings(context.Background(), &client.AlertSettings{Severities: severities})
		if err != nil {
			return err
		}
		fmt.Printf("alert severities set to %s\n", args[0])
		return nil
	},
}

func init() {
	alertsCmd.AddCommand(alertsShowCmd)
	alertsCmd.AddCommand(alertsSetCmd)
}
