package Controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/food-order-app/models"
)

func TestManagerSession(t *testing.T) {
	app := setupTestApp(t, setupTestConfig(managerSecret))
	_, err := app.orders.Create(context.Background(), models.OrderInput{Food: "Toast", Room: "1", Name: "A"})
	require.NoError(t, err)

	w := app.do(t, http.MethodPost, "/api/manager/session", map[string]string{"secret": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/api/manager/session", map[string]string{"secret": managerSecret}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var session struct {
		Success   bool   `json:"success"`
		Token     string `json:"token"`
		ExpiresAt string `json:"expiresAt"`
	}
	decode(t, w, &session)
	assert.True(t, session.Success)
	require.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.ExpiresAt)

	bearer := map[string]string{"Authorization": "Bearer " + session.Token}
	w = app.do(t, http.MethodDelete, "/api/orders?delete-order=001", nil, bearer)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodPost, "/api/orders?kitchen-status", map[string]bool{"isOpen": true},
		map[string]string{"Authorization": "Bearer " + session.Token + "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestManagerSessionWithoutSecretConfigured(t *testing.T) {
	app := setupTestApp(t, setupTestConfig(""))

	w := app.do(t, http.MethodPost, "/api/manager/session", map[string]string{"secret": managerSecret}, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
