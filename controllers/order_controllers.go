package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/services"
	"github.com/yeremiapane/food-order-app/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// ListActive -> list order aktif (array JSON polos)
func (oc *OrderController) ListActive(c *gin.Context) {
	c.JSON(http.StatusOK, oc.Orders.ListActive(c.Request.Context()))
}

// ListRecent -> gabungan order aktif + selesai, terbaru dulu
func (oc *OrderController) ListRecent(c *gin.Context) {
	limit := services.DefaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("limit must be a positive integer"))
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, oc.Orders.ListRecent(c.Request.Context(), limit))
}

// TrackOrder -> satu order berdasarkan id, aktif maupun selesai
func (oc *OrderController) TrackOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Query("track-order"))
	if id == "" {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("order id is required"))
		return
	}

	order, err := oc.Orders.Find(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CreateOrder -> customer membuat order (status "pending")
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body models.OrderInput
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid order body: %v", err))
		return
	}

	order, err := oc.Orders.Create(c.Request.Context(), body)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Infof("Order #%s created for %s (room %s)", order.ID, order.Name, order.Room)
	utils.RespondSuccess(c, http.StatusCreated, gin.H{"message": "Order created", "order": order})
}

// ClearOrders -> manager menyelesaikan semua order aktif sekaligus
func (oc *OrderController) ClearOrders(c *gin.Context) {
	count, err := oc.Orders.ClearActive(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "All orders cleared", "count": count})
}

// KitchenStatus -> {isOpen}
func (oc *OrderController) KitchenStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"isOpen": oc.Orders.KitchenOpen(c.Request.Context())})
}

// SetKitchenStatus -> manager membuka / menutup dapur
func (oc *OrderController) SetKitchenStatus(c *gin.Context) {
	var body struct {
		IsOpen *bool `json:"isOpen"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.IsOpen == nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("isOpen (boolean) is required"))
		return
	}

	isOpen, changed, err := oc.Orders.SetKitchenOpen(c.Request.Context(), *body.IsOpen)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"message": "Kitchen status updated",
		"isOpen":  isOpen,
		"changed": changed,
	})
}

// UpdateOrder -> manager mengubah status order; hanya status dan completedAt yang diterima
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Query("update-order"))
	if id == "" {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("order id is required"))
		return
	}

	upd, err := decodeStatusUpdate(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateStatus(c.Request.Context(), id, upd)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Infof("Order #%s -> %s", order.ID, order.Status)
	utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "Order updated", "order": order})
}

// DeleteOrder -> hapus permanen, tidak masuk completedOrders
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Query("delete-order"))
	if id == "" {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("order id is required"))
		return
	}

	order, err := oc.Orders.Delete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "Order deleted", "order": order})
}

func decodeStatusUpdate(c *gin.Context) (models.StatusUpdate, error) {
	var upd models.StatusUpdate

	raw, err := c.GetRawData()
	if err != nil {
		return upd, fmt.Errorf("failed to read body: %v", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&upd); err != nil {
		return upd, fmt.Errorf("invalid status update: %v", err)
	}
	if upd.Status == "" {
		return upd, fmt.Errorf("status is required")
	}
	return upd, nil
}
