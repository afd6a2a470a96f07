package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/shopworks/ecommerce-api/controllers/order"
	"github.com/shopworks/ecommerce-api/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	// websocket endpoint for real-time order updates
	r.GET("/ws/orders", orderControllers.OrderWebSocketHandler)

	orders := r.Group("/orders")
	{
		authed := orders.Group("")
		authed.Use(middleware.ValidateToken)
		{
			authed.GET("", orderControllers.ListOrders(db))
			authed.GET("/:id", orderControllers.GetOrder(db))
			authed.POST("/create", orderControllers.CreateOrder(db))
			authed.PUT("/:id", orderControllers.UpdateOrder(db))
			authed.DELETE("/:id", orderControllers.DeleteOrder(db))
		}
	}
}
