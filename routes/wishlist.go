package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	wishlistControllers "github.com/shopworks/ecommerce-api/controllers/wishlist"
	"github.com/shopworks/ecommerce-api/middleware"
)

func SetupWishlistRoutes(r *gin.Engine, db *gorm.DB) {
	wishlist := r.Group("/wishlist")
	wishlist.Use(middleware.ValidateToken)
	{
		wishlist.GET("", wishlistControllers.ListWishlists(db))
		wishlist.POST("", wishlistControllers.CreateWishlist(db))
		wishlist.GET("/:id/products", wishlistControllers.ListProducts(db))
		wishlist.POST("/:id/products", wishlistControllers.AddProduct(db))
		wishlist.DELETE("/:id/products/:product_id", wishlistControllers.RemoveProduct(db))
	}
}
