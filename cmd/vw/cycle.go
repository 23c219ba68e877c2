package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/alfredjeanlab/vendorwatch/internal/client"
	"github.com/alfredjeanlab/vendorwatch/internal/monitor"
	"github.com/alfredjeanlab/vendorwatch/internal/ui"
	"github.com/spf13/cobra"
)

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run and control monitoring cycles",
}

var cycleRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a monitoring cycle and follow its progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vendorID, _ := cmd.Flags().GetString("vendor")
		mode, _ := cmd.Flags().GetString("mode")
		detach, _ := cmd.Flags().GetBool("detach")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		// Subscribe before starting so no progress events are missed.
		var stream <-chan client.StreamEvent
		if !detach {
			var err error
			stream, err = api.StreamEvents(ctx, []string{"vendorwatch.cycle.>"}, "")
			if err != nil {
				return fmt.Errorf("opening event stream: %w", err)
			}
		}

		resp, err := api.StartCycle(ctx, &client.StartCycleRequest{
			VendorID:     vendorID,
			ResearchMode: mode,
		})
		if err != nil {
			return err
		}
		fmt.Printf("cycle started (research mode: %s)\n", resp.ResearchMode)
		if detach {
			return nil
		}

		return followCycle(ctx, stream)
	},
}

// followCycle prints cycle progress from the SSE stream until the cycle
// completes or the context is cancelled.
func followCycle(ctx context.Context, stream <-chan client.StreamEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-stream:
			if !ok {
				return fmt.Errorf("event stream closed before cycle completed")
			}
			var progress monitor.ProgressEvent
			if err := json.Unmarshal(evt.Data, &progress); err != nil {
				continue
			}
			switch progress.Kind {
			case "progress":
				fmt.Printf("[%d/%d] checking %s...\n",
					progress.Index, progress.Total, progress.VendorName)
			case "result":
				printCycleResult(progress)
			case "complete":
				printCycleSummary(progress)
				return nil
			}
		}
	}
}

func printCycleResult(progress monitor.ProgressEvent) {
	r := progress.Result
	if r == nil {
		return
	}
	switch r.Status {
	case monitor.StatusError:
		fmt.Printf("[%d/%d] %s: error (%s)\n",
			progress.Index, progress.Total, r.VendorName, r.Error)
	case monitor.StatusUnchanged:
		fmt.Printf("[%d/%d] %s: %s\n",
			progress.Index, progress.Total, r.VendorName, ui.RenderMuted("unchanged"))
	default:
		line := fmt.Sprintf("[%d/%d] %s: %s", progress.Index, progress.Total, r.VendorName, r.Status)
		if r.Severity != "" {
			line += " " + ui.RenderSeverity(string(r.Severity), "["+string(r.Severity)+"]")
		}
		if r.RiskEventID != "" {
			line += " " + ui.RenderMuted(r.RiskEventID)
		}
		if r.AlertSent {
			line += " (alerted)"
		}
		fmt.Println(line)
	}
}

func printCycleSummary(progress monitor.ProgressEvent) {
	changed, errored := 0, 0
	for _, r := range progress.Results {
		switch r.Status {
		case monitor.StatusChanged, monitor.StatusFirstSnapshot:
			changed++
		case monitor.StatusError:
			errored++
		}
	}
	fmt.Printf("\ncycle complete: %d checked, %d changed, %d errored\n",
		len(progress.Results), changed, errored)
}

var cycleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a cycle is running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		running, err := api.CycleRunning(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(map[string]bool{"running": running})
			return nil
		}
		if running {
			fmt.Println("a cycle is running")
		} else {
			fmt.Println("no cycle is running")
		}
		return nil
	},
}

var cycleCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Request cancellation of the running cycle",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.CancelCycle(context.Background()); err != nil {
			return err
		}
		fmt.Println("cancellation requested; the in-flight vendor will finish first")
		return nil
	},
}

func init() {
	cycleRunCmd.Flags().String("vendor", "", "run the cycle for a single vendor ID")
	cycleRunCmd.Flags().String("mode", "", "research mode override (basic or deep)")
	cycleRunCmd.Flags().Bool("detach", false, "start the cycle without following progress")

	cycleCmd.AddCommand(cycleRunCmd)
	cycleCmd.AddCommand(cycleStatusCmd)
	cycleCmd.AddCommand(cycleCancelCmd)
}
