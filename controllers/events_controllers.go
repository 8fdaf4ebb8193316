package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/food-order-app/kds"
	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/services"
	"github.com/yeremiapane/food-order-app/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboard dan halaman tracking di-serve dari origin mana pun
	},
}

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// EventController mengalirkan event order ke client lewat SSE, WebSocket, atau polling.
type EventController struct {
	Notifier    *services.Notifier
	Hub         *kds.Hub
	Heartbeat   time.Duration
	MaxDuration time.Duration
}

func NewEventController(notifier *services.Notifier, hub *kds.Hub, heartbeat, maxDuration time.Duration) *EventController {
	return &EventController{
		Notifier:    notifier,
		Hub:         hub,
		Heartbeat:   heartbeat,
		MaxDuration: maxDuration,
	}
}

// Stream -> GET /api/events (text/event-stream). Koneksi ditutup setelah
// MaxDuration; client diharapkan reconnect.
func (ec *EventController) Stream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	sub := ec.Hub.Subscribe("sse")
	defer ec.Hub.Unsubscribe(sub)

	if !ec.writeFrame(c, models.NewEvent(models.EventConnected, nil)) {
		return
	}

	heartbeat := time.NewTicker(ec.Heartbeat)
	defer heartbeat.Stop()
	deadline := time.NewTimer(ec.MaxDuration)
	defer deadline.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			utils.InfoLogger.Debug("SSE stream reached max duration, closing")
			return
		case <-heartbeat.C:
			if !ec.writeFrame(c, models.NewEvent(models.EventHeartbeat, nil)) {
				return
			}
		case event, ok := <-sub.Send:
			if !ok {
				return
			}
			if !ec.writeFrame(c, event) {
				return
			}
		}
	}
}

func (ec *EventController) writeFrame(c *gin.Context, event models.Event) bool {
	c.Render(-1, sse.Event{Data: event})
	if c.IsAborted() {
		utils.ErrorLogger.Errorf("SSE write failed: %v", c.Errors.Last())
		return false
	}
	c.Writer.Flush()
	return true
}

// Poll -> GET /api/events/poll?max=N, menguras event log secara langsung
func (ec *EventController) Poll(c *gin.Context) {
	max := services.DefaultDrainSize
	if raw := c.Query("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("max must be a positive integer"))
			return
		}
		max = n
	}

	events, err := ec.Notifier.Drain(c.Request.Context(), max)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Socket -> GET /api/events/ws, versi WebSocket dari Stream
func (ec *EventController) Socket(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}
	defer ws.Close()

	sub := ec.Hub.Subscribe("ws")
	defer ec.Hub.Unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ws.SetReadDeadline(time.Now().Add(wsPongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		// Baca pesan hanya untuk mendeteksi disconnect
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := ec.writeSocket(ws, models.NewEvent(models.EventConnected, nil)); err != nil {
		return
	}

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-ping.C:
			ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case event, ok := <-sub.Send:
			if !ok {
				ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "slow consumer"),
					time.Now().Add(wsWriteWait))
				return
			}
			if err := ec.writeSocket(ws, event); err != nil {
				utils.ErrorLogger.Errorf("WebSocket write failed: %v", err)
				return
			}
		}
	}
}

func (ec *EventController) writeSocket(ws *websocket.Conn, event models.Event) error {
	ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return ws.WriteJSON(event)
}
