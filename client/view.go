package client

import (
	"fmt"
	"net/url"
	"time"
)

// View is the page a client is showing.
type View string

const (
	ViewOrder    View = "order"
	ViewManager  View = "manager"
	ViewTracking View = "tracking"
)

// Interval polling per halaman, sama dengan UI lama.
var pollIntervals = map[View]time.Duration{
	ViewManager:  20 * time.Second,
	ViewTracking: 15 * time.Second,
	ViewOrder:    time.Minute,
}

// PollInterval returns how often a polling client on view should check for events.
func (v View) PollInterval() time.Duration {
	if d, ok := pollIntervals[v]; ok {
		return d
	}
	return time.Minute
}

// DetermineView reads the page from a URL: ?id=<orderId> is tracking and wins
// over ?page=manager; anything else is the order page.
func DetermineView(rawURL string) (View, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid page url: %w", err)
	}

	q := u.Query()
	if id := q.Get("id"); id != "" {
		return ViewTracking, id, nil
	}
	if q.Get("page") == "manager" {
		return ViewManager, "", nil
	}
	return ViewOrder, "", nil
}
