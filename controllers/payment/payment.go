package paymentControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopworks/ecommerce-api/checkout"
	orderControllers "github.com/shopworks/ecommerce-api/controllers/order"
	"github.com/shopworks/ecommerce-api/middleware"
	"github.com/shopworks/ecommerce-api/models"
)

type CartPaymentRequest struct {
	CartID       uint   `json:"cart_id" binding:"required"`
	PaymentToken string `json:"payment_token" binding:"required"`
}

type OrderPaymentRequest struct {
	OrderID      uint   `json:"order_id" binding:"required"`
	PaymentToken string `json:"payment_token" binding:"required"`
}

// POST /payment/cart/process/
func ProcessCartPayment(db *gorm.DB, svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "You must be authenticated to perform this action."})
			return
		}

		var req CartPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request: " + err.Error()})
			return
		}

		res, cerr := svc.Checkout(c.Request.Context(), userID, req.CartID, req.PaymentToken)
		if cerr != nil {
			respondCheckoutError(c, cerr)
			return
		}

		// Push the shipped order to websocket listeners.
		var order models.Order
		if err := db.Preload("Items").First(&order, res.OrderID).Error; err == nil {
			orderControllers.BroadcastOrderEvent("order_paid", order)
		}

		c.JSON(http.StatusOK, gin.H{
			"detail":         "Payment successful and products shipped.",
			"order_id":       res.OrderID,
			"amount_paid":    res.AmountPaid,
			"charge_id":      res.ChargeID,
			"payment_status": res.PaymentStatus,
			"shipping_date":  res.ShippingDate,
		})
	}
}

// POST /payment/process/
func ProcessOrderPayment(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "You must be authenticated to perform this action."})
			return
		}

		var req OrderPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request: " + err.Error()})
			return
		}

		res, cerr := svc.PayOrder(c.Request.Context(), userID, middleware.IsStaff(c), req.OrderID, req.PaymentToken)
		if cerr != nil {
			respondCheckoutError(c, cerr)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"detail":         "Payment successful.",
			"order_id":       res.OrderID,
			"amount_paid":    res.AmountPaid,
			"charge_id":      res.ChargeID,
			"payment_status": res.PaymentStatus,
			"shipping_date":  res.ShippingDate,
		})
	}
}

// GET /payments/
func ListPayments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		var payments []models.Payment
		if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
			return
		}
		c.JSON(http.StatusOK, payments)
	}
}

// GET /payment/:id
func GetPayment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		var payment models.Payment
		query := db.Where("id = ?", c.Param("id"))
		if !middleware.IsStaff(c) {
			query = query.Where("user_id = ?", userID)
		}
		if err := query.First(&payment).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment"})
			}
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}

// respondCheckoutError maps a checkout error kind to the HTTP envelope:
// validation and gateway failures are 400, a concurrent checkout is 409,
// anything unexpected is 500. The detail string is user-readable.
func respondCheckoutError(c *gin.Context, cerr *checkout.Error) {
	status := http.StatusBadRequest
	switch cerr.Kind {
	case checkout.KindConflict:
		status = http.StatusConflict
	case checkout.KindUnexpected:
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"detail": cerr.Detail})
}
