package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alfredjeanlab/vendorwatch/internal/client"
	"github.com/spf13/cobra"
)

var vendorCmd = &cobra.Command{
	Use:   "vendor",
	Short: "Manage monitored vendors",
}

var vendorAddCmd = &cobra.Command{
	Use:   "add <name> <website>",
	Short: "Add a vendor to monitor",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vendor, err := api.CreateVendor(context.Background(), &client.CreateVendorRequest{
			Name:    args[0],
			Website: args[1],
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(vendor)
		} else {
			printVendorTable(vendor)
		}
		return nil
	},
}

var vendorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List monitored vendors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := api.ListVendors(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(resp.Vendors)
		} else {
			printVendorListTable(resp.Vendors, resp.Total)
		}
		return nil
	},
}

var vendorShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a vendor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vendor, err := api.GetVendor(context.Background(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(vendor)
		} else {
			printVendorTable(vendor)
		}
		return nil
	},
}

var vendorUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a vendor's name or website",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateVendorRequest{}
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			req.Name = &name
		}
		if cmd.Flags().Changed("website") {
			website, _ := cmd.Flags().GetString("website")
			req.Website = &website
		}
		if req.Name == nil && req.Website == nil {
			return fmt.Errorf("nothing to update; pass --name or --website")
		}

		vendor, err := api.UpdateVendor(context.Background(), args[0], req)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(vendor)
		} else {
			printVendorTable(vendor)
		}
		return nil
	},
}

var vendorRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a vendor and its history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Printf("Remove vendor %s and all its snapshots and events? [y/N] ", args[0])
			var answer string
			fmt.Fscanln(os.Stdin, &answer)
			if answer != "y" && answer != "Y" {
				fmt.Println("aborted")
				return nil
			}
		}
		if err := api.DeleteVendor(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("vendor %s removed\n", args[0])
		return nil
	},
}

func init() {
	vendorUpdateCmd.Flags().String("name", "", "new vendor name")
	vendorUpdateCmd.Flags().String("website", "", "new website URL")
	vendorRmCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")

	vendorCmd.AddCommand(vendorAddCmd)
	vendorCmd.AddCommand(vendorListCmd)
	vendorCmd.AddCommand(vendorShowCmd)
	vendorCmd.AddCommand(vendorUpdateCmd)
	vendorCmd.AddCommand(vendorRmCmd)
}
