package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/alfredjeanlab/vendorwatch/internal/events"
	"github.com/alfredjeanlab/vendorwatch/internal/ui"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream live events from the server",
	Long: `Stream live events from the server.

Connects over NATS when a NATS URL is configured (VENDORWATCH_NATS_URL or the
active remote's nats_url), otherwise falls back to the server's SSE stream.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, _ := cmd.Flags().GetString("topics")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		natsURL := os.Getenv("VENDORWATCH_NATS_URL")
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL != "" {
			return watchNATS(ctx, natsURL, topics)
		}
		return watchSSE(ctx, topics)
	},
}

// watchNATS subscribes directly to the event bus.
func watchNATS(ctx context.Context, natsURL, topics string) error {
	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	// NATS takes one subject per subscription; multiple topics need the
	// wildcard form anyway, so subscribe to the first pattern only.
	subject := "vendorwatch.>"
	if topics != "" {
		subject = strings.Split(topics, ",")[0]
	}
	ch, cancel, err := sub.Subscribe(subject)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-ch:
			if !ok {
				return nil
			}
			// The subscriber hands back raw payloads without the subject,
			// so NATS mode prints payloads only.
			printWatchEvent("", raw)
		}
	}
}

// watchSSE streams from the server's SSE endpoint.
func watchSSE(ctx context.Context, topics string) error {
	var filter []string
	if topics != "" {
		filter = strings.Split(topics, ",")
	}
	stream, err := api.StreamEvents(ctx, filter, "")
	if err != nil {
		return fmt.Errorf("opening event stream: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-stream:
			if !ok {
				return nil
			}
			printWatchEvent(evt.Topic, evt.Data)
		}
	}
}

func printWatchEvent(topic string, data []byte) {
	if jsonOutput {
		if topic == "" {
			fmt.Println(compactJSON(data))
		} else {
			fmt.Printf("{\"topic\":%q,\"data\":%s}\n", topic, compactJSON(data))
		}
		return
	}
	if topic == "" {
		fmt.Println(compactJSON(data))
		return
	}
	fmt.Printf("%s %s\n", ui.RenderAccent(topic), compactJSON(data))
}

func compactJSON(data []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return string(data)
	}
	return buf.String()
}

func init() {
	watchCmd.Flags().String("topics", "", "comma-separated topic filters (e.g. vendorwatch.risk.created)")
}
