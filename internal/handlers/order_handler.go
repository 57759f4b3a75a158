package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Abbrahem/GIVENTO/internal/events"
	"github.com/Abbrahem/GIVENTO/internal/models"
	"github.com/Abbrahem/GIVENTO/internal/notifier"
)

type OrderHandler struct {
	DB       *gorm.DB
	Events   events.Publisher
	Notifier *notifier.Notifier
}

type OrderItemRequest struct {
	ProductID   uint    `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
	Image       string  `json:"image"`
}

type CreateOrderRequest struct {
	CustomerName    string             `json:"customerName" binding:"required"`
	CustomerPhone   string             `json:"customerPhone" binding:"required"`
	AlternatePhone  string             `json:"alternatePhone"`
	CustomerAddress string             `json:"customerAddress" binding:"required"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	TotalAmount     float64            `json:"totalAmount" binding:"required,gt=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type BulkDeleteRequest struct {
	IDs     []uint `json:"ids" binding:"required,min=1"`
	Confirm string `json:"confirm" binding:"required"`
}

// newOrderRef makes the short public code customers quote on the phone.
func newOrderRef() string {
	return "GV-" + strings.ToUpper(uuid.NewString()[:8])
}

// POST /api/orders (public checkout)
//
// Submitted items are stored verbatim. When an item references a product and
// omits name, price or image, the gaps are filled from the product at order
// time; the stored snapshot then stays stable however the catalog changes.
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		item := models.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
			Size:        it.Size,
			Color:       it.Color,
			Image:       it.Image,
		}

		if it.ProductID != 0 {
			var product models.Product
			if err := h.DB.First(&product, it.ProductID).Error; err == nil {
				if item.ProductName == "" {
					item.ProductName = product.Name
				}
				if item.Price == 0 {
					item.Price = product.SalePrice
				}
				if item.Image == "" && len(product.Images) > 0 {
					item.Image = product.Images[0]
				}
			}
		}

		if item.ProductName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "each item needs a productName or a resolvable productId"})
			return
		}
		if item.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "each item needs a positive price"})
			return
		}
		items = append(items, item)
	}

	order := models.Order{
		OrderRef:        newOrderRef(),
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		AlternatePhone:  req.AlternatePhone,
		CustomerAddress: req.CustomerAddress,
		Items:           items,
		TotalAmount:     req.TotalAmount,
		Status:          models.StatusPending,
	}

	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}

	if h.Notifier != nil {
		go func(o models.Order) {
			if err := h.Notifier.SendOrderSMS(o.CustomerPhone, o.OrderRef, o.TotalAmount); err != nil {
				log.Error().Err(err).Str("orderRef", o.OrderRef).Msg("order SMS failed")
			}
		}(order)
		go func(o models.Order) {
			if err := h.Notifier.SendNewOrderEmail(o.OrderRef, o.CustomerName, o.CustomerPhone, o.TotalAmount); err != nil {
				log.Error().Err(err).Str("orderRef", o.OrderRef).Msg("new-order email failed")
			}
		}(order)
	}
	h.publish(events.OrderCreated, &order)

	c.JSON(http.StatusCreated, order)
}

// GET /api/orders (admin)
func (h *OrderHandler) List(c *gin.Context) {
	orders := []models.Order{}
	if err := h.DB.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /api/orders/:id (admin)
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "order")
	if !ok {
		return
	}

	var order models.Order
	if err := h.DB.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// PUT /api/orders/:id/status (admin)
//
// Any value from the status enum is accepted; there is no transition graph.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "order")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.OrderStatus(req.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order status: " + req.Status})
		return
	}

	var order models.Order
	if err := h.DB.Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}

	order.Status = status
	if err := h.DB.Model(&order).Update("status", status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
		return
	}

	h.publish(events.OrderStatusChanged, &order)
	c.JSON(http.StatusOK, order)
}

// DELETE /api/orders/:id (admin)
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "order")
	if !ok {
		return
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}

	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

// POST /api/orders/bulk-delete (admin)
//
// Destructive and irreversible, so the request must carry the literal
// confirmation token "DELETE".
func (h *OrderHandler) BulkDelete(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Confirm != "DELETE" {
		c.JSON(http.StatusBadRequest, gin.H{"error": `bulk delete requires confirm: "DELETE"`})
		return
	}

	var deleted int64
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id IN ?", req.IDs).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", req.IDs).Delete(&models.Order{})
		deleted = res.RowsAffected
		return res.Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete orders"})
		return
	}

	log.Info().Int64("deletedCount", deleted).Msg("bulk order delete")
	c.JSON(http.StatusOK, gin.H{"message": "Orders deleted successfully", "deletedCount": deleted})
}

func (h *OrderHandler) publish(eventType string, order *models.Order) {
	if h.Events == nil {
		return
	}
	evt := events.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		OrderRef:    order.OrderRef,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now(),
	}
	go func() {
		if err := h.Events.PublishOrderEvent(evt); err != nil {
			log.Error().Err(err).Str("type", eventType).Uint("orderId", evt.OrderID).Msg("order event publish failed")
		}
	}()
}
