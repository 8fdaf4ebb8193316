package Controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/food-order-app/models"
)

func TestCreateCompleteScenario(t *testing.T) {
	app := setupTestApp(t, setupTestConfig(managerSecret))

	w := app.do(t, http.MethodPost, "/api/orders", map[string]string{"food": "Toast", "room": "12", "name": "Alice"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Success bool         `json:"success"`
		Order   models.Order `json:"order"`
	}
	decode(t, w, &created)
	assert.True(t, created.Success)
	assert.Equal(t, "001", created.Order.ID)
	assert.Equal(t, models.StatusPending, created.Order.Status)
	assert.NotEmpty(t, created.Order.Timestamp)

	w = app.do(t, http.MethodPut, "/api/orders?update-order=001", map[string]string{"status": "completed"}, manager())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/api/orders", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = app.do(t, http.MethodGet, "/api/orders?completed-orders=true", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recent []models.RecentOrder
	decode(t, w, &recent)
	require.Len(t, recent, 1)
	assert.Equal(t, "001", recent[0].ID)
	assert.False(t, recent[0].IsActive)
	assert.NotEmpty(t, recent[0].CompletedAt)
}

func TestCreateValidation(t *testing.T) {
	app := setupTestApp(t, setupTestConfig(managerSecret))

	w := app.do(t, http.MethodPost, "/api/orders", map[string]string{"food": "Toast", "room": "12"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name")

	w = app.do(t, http.MethodPost, "/api/orders", `{"food":`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, app.orders.ListActive(context.Background()))
}

func TestCreateWhenKitchenClosedEnforced(t *testing.T) {
	app := setupTestApp(t, setupTestConfig(managerSecret))
	app.orders.EnforceKitchenOpen = true

	w := app.do(t, http.MethodPost, "/api/orders", map[string]string{"food": "Toast", "room": "12", "name": "Alice"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestManagerRoutesRequireSecret(t *testing.T) {
	routes := []struct {
		name   string
		method string
		target string
		body   interface{}
		want   int
	}{
		{name: "set kitchen status", method: http.MethodPost, target: "/api/orders?kitchen-status=true", body: map[string]bool{"isOpen": true}, want: http.StatusOK},
		{name: "update order", method: http.MethodPut, target: "/api/orders?update-order=001", body: map[string]string{"status": "accepted"}, want: http.StatusOK},
		{name: "delete order", method: http.MethodDelete, target: "/api/orders?delete-order=001", want: http.StatusOK},
		{name: "clear all", method: http.MethodPost, target: "/api/orders", body: "[]", want: http.StatusOK},
	}
	credentials := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{name: "absent", headers: nil, want: http.StatusUnauthorized},
		{name: "incorrect", headers: map[string]string{"X-Manager-Secret": "nope"}, want: http.StatusUnauthorized},
		{name: "correct", headers: manager()},
	}

	for _, rt := range routes {
		for _, cred := range credentials {
			t.Run(rt.name+"/"+cred.name, func(t *testing.T) {
				app := setupTestApp(t, setupTestConfig(managerSecret))
				_, err := app.orders.Create(context.Background(), models.OrderInput{Food: "Toast", Room: "1", Name: "A"})
				require.NoError(t, err)

				w := app.do(t, rt.method, rt.target, rt.body, cred.headers)
				want := cred.want
				if want == 0 {
					want = rt.want
				}
				assert.Equal(t, want, w.Code, w.Body.String())
			})
		}
	}
}

func TestMissingManagerSecretIsServerError(t *testing.T) {
	app := setupTestApp(t, setupTestConfig(""))

	w := app.do(t, http.MethodPost, "/api/orders?kitchen-status=true", map[string]bool{"isOpen": true}, manager())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")

	// route publik tetap jalan
	w = app.do(t, http.MethodGet, "/api/orders?kitchen-status=true", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestKitchenToggleEmitsOnce(t *testing.T) {
	app := setupTestApp(t, setupTestConfig(managerSecret))

	for i := 0; i < 2; i++ {
		w := app.do(t, http.MethodPost, "/api/orders?kitchen-status=true", map[string]bool{"isOpen": true}, manager())
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := app.do(t, http.MethodGet, "/api/orders?kitchen-status", nil, nil)
	assert.JSONEq(t, `{"isOpen":true}`, w.Body.String())

	w = app.do(t, http.MethodGet, "/api/events/poll", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Events []models.Event `json:"events"`
	}
	decode(t, w, &body)
	require.Len(t, body.Events, 1)
	assert.Equal(t, models.EventKitchenStatusChanged, body.Events[0].Type)
	data := body.Events[0].Data.(map[string]interface{})
	assert.Equal(t, true, data["isOpen"])
	assert.Equal(t, false, data["previousStatus"])
}

func TestSetKitchenStatusRequiresBoolean(t *testing.T) {
	app := setupTestApp(t, setupTestConfig(managerSecret))

	w := app.do(t, http.MethodPost, "/api/orders?kitchen-status=true", map[string]string{"isOpen": "yes"}, manager())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/api/orders?kitchen-status=true", map[string]string{}, manager())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderValidation(t *testing.T) {
	app := setupTestApp(t, setupTestConfig(managerSecret))
	_, err := app.orders.Create(context.Background(), models.OrderInput{Food: "Toast", Room: "1", Name: "A"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		body   interface{}
		want   int
	}{
		{name: "unknown field", target: "/api/orders?update-order=001", body: map[string]string{"status": "accepted", "food": "Cake"}, want: http.StatusBadRequest},
		{name: "missing status", target: "/api/orders?update-order=001", body: map[string]string{}, want: http.StatusBadRequest},
		{name: "invalid status", target: "/api/orders?update-order=001", body: map[string]string{"status": "cooking"}, want: http.StatusBadRequest},
		{name: "unknown order", target: "/api/orders?update-order=999", body: map[string]string{"status": "accepted"}, want: http.StatusNotFound},
		{name: "forward", target: "/api/orders?update-order=001", body: map[string]string{"status": "being-made"}, want: http.StatusOK},
		{name: "backward", target: "/api/orders?update-order=001", body: map[string]string{"status": "accepted"}, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, http.MethodPut, tt.target, tt.body, manager())
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	active := app.orders.ListActive(context.Background())
	require.Len(t, active, 1)
	assert.Equal(t, "Toast", active[0].Food)
	assert.Equal(t, models.StatusBeingMade, active[0].Status)
}

func TestDeleteAndTrackOrder(t *testing.T) {
	app := setupTestApp(t, setupTestConfig(managerSecret))
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := app.orders.Create(ctx, models.OrderInput{Food: "Toast", Room: "1", Name: "A"})
		require.NoError(t, err)
	}

	w := app.do(t, http.MethodGet, "/api/orders?track-order=002", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tracked struct {
		Order models.RecentOrder `json:"order"`
	}
	decode(t, w, &tracked)
	assert.Equal(t, "002", tracked.Order.ID)
	assert.True(t, tracked.Order.IsActive)

	w = app.do(t, http.MethodDelete, "/api/orders?delete-order=002", nil, manager())
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/api/orders?track-order=002", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodDelete, "/api/orders?delete-order=002", nil, manager())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodGet, "/api/orders?completed-orders=true", nil, nil)
	var recent []models.RecentOrder
	decode(t, w, &recent)
	require.Len(t, recent, 1)
	assert.Equal(t, "001", recent[0].ID)
}

func TestClearAllOrders(t *testing.T) {
	app := setupTestApp(t, setupTestConfig(managerSecret))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := app.orders.Create(ctx, models.OrderInput{Food: "Toast", Room: "1", Name: "A"})
		require.NoError(t, err)
	}

	w := app.do(t, http.MethodPost, "/api/orders", "[]", manager())
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"All orders cleared","count":3}`, w.Body.String())

	assert.Empty(t, app.orders.ListActive(ctx))
	for _, o := range app.orders.ListRecent(ctx, 10) {
		assert.Equal(t, models.StatusCompleted, o.Status)
	}
}

func TestRecentOrdersLimit(t *testing.T) {
	app := setupTestApp(t, setupTestConfig(managerSecret))
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_, err := app.orders.Create(ctx, models.OrderInput{Food: "Toast", Room: "1", Name: "A"})
		require.NoError(t, err)
	}

	w := app.do(t, http.MethodGet, "/api/orders?completed-orders=true&limit=2", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recent []models.RecentOrder
	decode(t, w, &recent)
	assert.Len(t, recent, 2)

	w = app.do(t, http.MethodGet, "/api/orders?completed-orders=true&limit=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutingErrors(t *testing.T) {
	app := setupTestApp(t, setupTestConfig(managerSecret))

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{name: "unknown path", method: http.MethodGet, target: "/api/menus", want: http.StatusNotFound},
		{name: "delete without flag", method: http.MethodDelete, target: "/api/orders", want: http.StatusMethodNotAllowed},
		{name: "get on update", method: http.MethodGet, target: "/api/orders?update-order=001", want: http.StatusMethodNotAllowed},
		{name: "post on poll", method: http.MethodPost, target: "/api/events/poll", want: http.StatusMethodNotAllowed},
		{name: "preflight", method: http.MethodOptions, target: "/api/orders?kitchen-status", want: http.StatusOK},
		{name: "preflight events", method: http.MethodOptions, target: "/api/events", want: http.StatusOK},
		{name: "ping", method: http.MethodGet, target: "/ping", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, tt.method, tt.target, nil, nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	w := app.do(t, http.MethodDelete, "/api/orders", nil, nil)
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Allow"))
	assert.JSONEq(t, `{"error":"method not allowed"}`, w.Body.String())
}
