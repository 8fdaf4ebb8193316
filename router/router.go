package router

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/food-order-app/config"
	"github.com/yeremiapane/food-order-app/controllers"
	"github.com/yeremiapane/food-order-app/kds"
	"github.com/yeremiapane/food-order-app/middlewares"
	"github.com/yeremiapane/food-order-app/services"
	"github.com/yeremiapane/food-order-app/utils"
)

const maxBodyBytes = 1 << 20

// Deps adalah semua komponen yang dibutuhkan router.
type Deps struct {
	Config   *config.Config
	Orders   *services.OrderService
	Notifier *services.Notifier
	Hub      *kds.Hub
}

type routeHandler struct {
	handle  gin.HandlerFunc
	manager bool
}

func SetupRouter(deps Deps) *gin.Engine {
	cfg := deps.Config

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(middlewares.CORSMiddlewares(cfg.ManagerHeader))
	r.Use(middlewares.SecurityHeaders("/api/"))
	r.Use(middlewares.LoggerMiddleware())
	if limit, window := rateWindow(cfg.RateLimitRPS, cfg.RateLimitBurst); limit > 0 {
		r.Use(middlewares.NewRateLimiter(limit, window).RateLimit())
	}

	auth := middlewares.NewManagerAuth(cfg.ManagerSecret, cfg.ManagerSecretHash, cfg.ManagerHeader)

	orderCtrl := controllers.NewOrderController(deps.Orders)
	eventCtrl := controllers.NewEventController(deps.Notifier, deps.Hub, cfg.SSEHeartbeat, cfg.SSEMaxDuration)
	managerCtrl := controllers.NewManagerController(auth, cfg.SessionTTL)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")
	{
		api.Any("/orders", orderDispatcher(auth.Require(), orderCtrl))

		api.GET("/events", eventCtrl.Stream)
		api.GET("/events/poll", eventCtrl.Poll)
		api.GET("/events/ws", eventCtrl.Socket)

		// Rate limiter ketat untuk login manager
		api.POST("/manager/session", middlewares.BurstLimiter(2*time.Second, 5), managerCtrl.CreateSession)
	}

	r.NoRoute(func(c *gin.Context) {
		utils.RespondError(c, http.StatusNotFound, errors.New("not found"))
	})
	r.NoMethod(func(c *gin.Context) {
		utils.RespondError(c, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	})

	return r
}

// orderDispatcher memetakan request /api/orders ke handler bertipe lewat Route.
// requireManager dijalankan hanya untuk route manager dan menghentikan request bila ditolak.
func orderDispatcher(requireManager gin.HandlerFunc, oc *controllers.OrderController) gin.HandlerFunc {
	handlers := map[Route]routeHandler{
		RouteListActive:       {handle: oc.ListActive},
		RouteCreate:           {handle: oc.CreateOrder},
		RouteClearActive:      {handle: oc.ClearOrders, manager: true},
		RouteKitchenStatus:    {handle: oc.KitchenStatus},
		RouteSetKitchenStatus: {handle: oc.SetKitchenStatus, manager: true},
		RouteListRecent:       {handle: oc.ListRecent},
		RouteTrackOrder:       {handle: oc.TrackOrder},
		RouteUpdateOrder:      {handle: oc.UpdateOrder, manager: true},
		RouteDeleteOrder:      {handle: oc.DeleteOrder, manager: true},
	}

	return func(c *gin.Context) {
		body, err := peekBody(c)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("failed to read body: %v", err))
			return
		}

		route, allowed := ResolveOrderRoute(c.Request.Method, c.Request.URL.Query(), body)
		if route == RouteUnknown {
			c.Header("Allow", strings.Join(append(allowed, http.MethodOptions), ", "))
			utils.RespondError(c, http.StatusMethodNotAllowed, errors.New("method not allowed"))
			return
		}

		h := handlers[route]
		if h.manager {
			requireManager(c)
			if c.IsAborted() {
				return
			}
		}

		c.Set("route", route.String())
		h.handle(c)
	}
}

// peekBody membaca body untuk resolusi route lalu mengembalikannya ke request.
func peekBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil || c.Request.Method == http.MethodGet {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

// rateWindow converts an average rate and burst size into the sliding window
// the per-IP limiter uses: at most burst requests within burst/rps.
func rateWindow(rps float64, burst int) (int, time.Duration) {
	if rps <= 0 || burst <= 0 {
		return 0, 0
	}
	window := time.Duration(float64(burst) / rps * float64(time.Second))
	if window <= 0 {
		window = time.Second
	}
	return burst, window
}
