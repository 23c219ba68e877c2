package client

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// StreamEvent is one server-sent event from /v1/events/stream.
type StreamEvent struct {
	ID    string
	Topic string
	Data  json.RawMessage
}

// StreamEvents opens the SSE endpoint and returns a channel of events. The
// channel is closed when the server disconnects or ctx is cancelled. Pass a
// lastEventID to resume a previous stream from the server's replay buffer.
func (c *HTTPClient) StreamEvents(ctx context.Context, topics []string, lastEventID string) (<-chan StreamEvent, error) {
	path := "/v1/events/stream"
	if len(topics) > 0 {
		q := url.Values{}
		q.Set("topics", strings.Join(topics, ","))
		path += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if lastEventID != "" {
		req.Header.Set("Last-Event-ID", lastEventID)
	}

	// No client timeout: the stream is long-lived and ends via ctx.
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}

	ch := make(chan StreamEvent, 64)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		var evt StreamEvent
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case line == "":
				// Blank line terminates an event.
				if evt.Topic != "" || len(evt.Data) > 0 {
					select {
					case ch <- evt:
					case <-ctx.Done():
						return
					}
				}
				evt = StreamEvent{}
			case strings.HasPrefix(line, ":"):
				// Keepalive comment.
			case strings.HasPrefix(line, "id:"):
				evt.ID = strings.TrimSpace(strings.TrimPrefix(line, "id:"))
			case strings.HasPrefix(line, "event:"):
				evt.Topic = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				evt.Data = json.RawMessage(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			}
		}
	}()
	return ch, nil
}
