package orderControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/ecommerce-api/checkout"
	"github.com/shopworks/ecommerce-api/middleware"
	"github.com/shopworks/ecommerce-api/models"
)

type OrderLineInput struct {
	ProductID uint `json:"product" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	Products []OrderLineInput `json:"products" binding:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	IsShipped *bool `json:"is_shipped"`
}

// GET /orders
func ListOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		query := db.Preload("Items").Preload("Payment").Order("created_at DESC")
		if !middleware.IsStaff(c) {
			query = query.Where("user_id = ?", userID)
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:id
func GetOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		query := db.Preload("Items").Preload("Payment").Where("id = ?", c.Param("id"))
		if !middleware.IsStaff(c) {
			query = query.Where("user_id = ?", userID)
		}

		var order models.Order
		if err := query.First(&order).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			}
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// POST /orders/create
//
// Creates a pending order directly from a product list without charging it.
// Stock is validated but not debited; the debit happens when the order is
// paid through the checkout flow.
func CreateOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Product data is missing the required fields."})
			return
		}

		lines := make([]checkout.Line, 0, len(req.Products))
		for _, entry := range req.Products {
			var product models.Product
			if err := db.First(&product, "id = ?", entry.ProductID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					c.JSON(http.StatusBadRequest, gin.H{"detail": "Product does not exist."})
				} else {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
				}
				return
			}
			lines = append(lines, checkout.Line{Product: product, Quantity: entry.Quantity})
		}

		if verr := checkout.ValidateStock(lines); verr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": verr.Detail})
			return
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, models.OrderItem{
				ProductID:   l.Product.ID,
				ProductName: l.Product.Name,
				UnitPrice:   l.Product.Price,
				Quantity:    l.Quantity,
			})
		}
		order := models.Order{
			UserID:     userID,
			Items:      items,
			Amount:     checkout.Total(lines),
			Status:     models.OrderStatusPending,
			TrackingID: uuid.NewString(),
		}
		if err := db.Create(&order).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			return
		}

		BroadcastOrderEvent("order_created", order)
		c.JSON(http.StatusCreated, order)
	}
}

// PUT /orders/:id
func UpdateOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var order models.Order
		if err := db.Preload("Items").First(&order, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if order.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action."})
			return
		}

		var req UpdateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if req.IsShipped != nil && *req.IsShipped {
			if order.Status != models.OrderStatusPaid {
				c.JSON(http.StatusBadRequest, gin.H{"error": "only paid orders can be shipped"})
				return
			}
			now := time.Now()
			order.Status = models.OrderStatusShipped
			order.IsShipped = true
			order.ShippingDate = &now
			if err := db.Model(&order).Updates(map[string]interface{}{
				"status":        order.Status,
				"is_shipped":    order.IsShipped,
				"shipping_date": order.ShippingDate,
			}).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
				return
			}
			BroadcastOrderEvent("order_shipped", order)
		}

		c.JSON(http.StatusOK, order)
	}
}

// DELETE /orders/:id
func DeleteOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var order models.Order
		if err := db.First(&order, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if order.UserID != userID && !middleware.IsStaff(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action."})
			return
		}

		// Payment and items ride along via CASCADE.
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.Payment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&order).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
