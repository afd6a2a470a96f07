package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopworks/ecommerce-api/checkout"
	paymentControllers "github.com/shopworks/ecommerce-api/controllers/payment"
	"github.com/shopworks/ecommerce-api/middleware"
)

func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, svc *checkout.Service) {
	payment := r.Group("/payment")
	payment.Use(middleware.ValidateToken)
	{
		// Checkout: cart -> order -> charge -> clear cart
		payment.POST("/cart/process/", paymentControllers.ProcessCartPayment(db, svc))

		// Pay an already-created order; records the outcome only
		payment.POST("/process/", paymentControllers.ProcessOrderPayment(svc))

		payment.GET("/:id", paymentControllers.GetPayment(db))
	}

	payments := r.Group("/payments")
	payments.Use(middleware.ValidateToken)
	{
		payments.GET("", paymentControllers.ListPayments(db))
	}
}
