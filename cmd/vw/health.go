package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.Health(context.Background()); err != nil {
			return fmt.Errorf("server unhealthy: %w", err)
		}
		fmt.Println("ok")
		return nil
	},
}
