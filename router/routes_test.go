package router

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveOrderRoute(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		query   string
		body    string
		want    Route
		allowed []string
	}{
		{name: "list active", method: http.MethodGet, want: RouteListActive},
		{name: "create", method: http.MethodPost, body: `{"food":"Toast"}`, want: RouteCreate},
		{name: "clear with empty array", method: http.MethodPost, body: " []", want: RouteClearActive},
		{name: "kitchen status", method: http.MethodGet, query: "kitchen-status", want: RouteKitchenStatus},
		{name: "set kitchen status", method: http.MethodPost, query: "kitchen-status", body: `{"isOpen":true}`, want: RouteSetKitchenStatus},
		{name: "recent", method: http.MethodGet, query: "completed-orders=true", want: RouteListRecent},
		{name: "track", method: http.MethodGet, query: "track-order=004", want: RouteTrackOrder},
		{name: "update via put", method: http.MethodPut, query: "update-order=001", want: RouteUpdateOrder},
		{name: "update via post", method: http.MethodPost, query: "update-order=001", body: `[]`, want: RouteUpdateOrder},
		{name: "delete", method: http.MethodDelete, query: "delete-order=001", want: RouteDeleteOrder},
		{name: "kitchen flag wins", method: http.MethodGet, query: "completed-orders&kitchen-status", want: RouteKitchenStatus},
		{name: "delete without flag", method: http.MethodDelete, want: RouteUnknown, allowed: []string{http.MethodGet, http.MethodPost}},
		{name: "get on update", method: http.MethodGet, query: "update-order=001", want: RouteUnknown, allowed: []string{http.MethodPost, http.MethodPut}},
		{name: "patch on kitchen", method: http.MethodPatch, query: "kitchen-status", want: RouteUnknown, allowed: []string{http.MethodGet, http.MethodPost}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)

			got, allowed := ResolveOrderRoute(tt.method, query, []byte(tt.body))
			assert.Equal(t, tt.want, got, "got %s", got)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestRateWindow(t *testing.T) {
	limit, window := rateWindow(50, 100)
	assert.Equal(t, 100, limit)
	assert.Equal(t, 2*time.Second, window)

	limit, _ = rateWindow(0, 100)
	assert.Zero(t, limit)
}
