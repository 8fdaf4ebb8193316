package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/yeremiapane/food-order-app/models"
)

// Stream opens the server-sent event channel and calls handle for every frame
// until the server closes the connection or ctx is cancelled. A nil error
// means the server ended the stream and the caller should reconnect.
func (c *Client) Stream(ctx context.Context, handle func(models.Event)) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/events", nil, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	// tanpa timeout: koneksi dibiarkan terbuka sampai server menutupnya
	httpClient := *c.HTTP
	httpClient.Timeout = 0

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	var frame bytes.Buffer
	for scanner.Scan() {
		line := scanner.Bytes()
		frame.Write(line)
		frame.WriteByte('\n')
		if len(line) > 0 {
			continue
		}

		for _, event := range decodeFrame(frame.Bytes()) {
			handle(event)
		}
		frame.Reset()
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return scanner.Err()
}

func decodeFrame(frame []byte) []models.Event {
	decoded, err := sse.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil
	}

	events := make([]models.Event, 0, len(decoded))
	for _, d := range decoded {
		data, ok := d.Data.(string)
		if !ok {
			continue
		}
		var event models.Event
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events
}
