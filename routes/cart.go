package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/shopworks/ecommerce-api/controllers/cart"
	"github.com/shopworks/ecommerce-api/middleware"
)

func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	cart := r.Group("/cart")
	cart.Use(middleware.ValidateToken)
	{
		cart.GET("", cartControllers.GetUserCart(db))
		cart.POST("/add", cartControllers.AddCartItems(db))
		cart.PUT("/items/:id", cartControllers.UpdateCartItemQuantity(db))
		cart.DELETE("/items/:id", cartControllers.DeleteCartItem(db))
		cart.DELETE("", cartControllers.ClearUserCart(db))
	}
}
