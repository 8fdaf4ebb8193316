package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/food-order-app/config"
	"github.com/yeremiapane/food-order-app/database"
	"github.com/yeremiapane/food-order-app/kds"
	"github.com/yeremiapane/food-order-app/router"
	"github.com/yeremiapane/food-order-app/services"
	"github.com/yeremiapane/food-order-app/utils"
)

const managerSecret = "KaedynIsCool"

type testApp struct {
	router   *gin.Engine
	orders   *services.OrderService
	notifier *services.Notifier
	hub      *kds.Hub
}

func setupTestConfig(secret string) *config.Config {
	return &config.Config{
		ManagerSecret:  secret,
		ManagerHeader:  "X-Manager-Secret",
		SessionTTL:     time.Hour,
		SSEHeartbeat:   time.Second,
		SSEMaxDuration: 2 * time.Second,
	}
}

func setupTestApp(t *testing.T, cfg *config.Config) *testApp {
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	backend, err := database.NewSQLBackend(db)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	clock, err := utils.NewClock("Pacific/Auckland")
	require.NoError(t, err)

	notifier := services.NewNotifier(backend, "events", 100, 5*time.Minute)
	orders := services.NewOrderService(services.NewDocumentStore(backend, "doc", 0), notifier, clock)
	hub := kds.NewHub()

	r := router.SetupRouter(router.Deps{Config: cfg, Orders: orders, Notifier: notifier, Hub: hub})
	return &testApp{router: r, orders: orders, notifier: notifier, hub: hub}
}

// do mengirim request JSON ke router; headers opsional.
func (a *testApp) do(t *testing.T, method, target string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func manager() map[string]string {
	return map[string]string{"X-Manager-Secret": managerSecret}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}
