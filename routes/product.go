package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productcontroller "github.com/shopworks/ecommerce-api/controllers/product"
	"github.com/shopworks/ecommerce-api/middleware"
)

func SetupProductRoutes(r *gin.Engine, db *gorm.DB) {
	products := r.Group("/products")
	{
		// Public catalog
		products.GET("", productcontroller.GetProducts(db))
		products.GET("/:id", productcontroller.GetProductByID(db))

		// Staff-only catalog management
		staff := products.Group("")
		staff.Use(middleware.ValidateToken, middleware.RequireStaff)
		{
			staff.POST("", productcontroller.CreateProduct(db))
			staff.PUT("/:id", productcontroller.UpdateProduct(db))
			staff.DELETE("/:id", productcontroller.DeleteProduct(db))
		}
	}

	// Registered outside /products: a static segment cannot share a route
	// level with the :id wildcard.
	r.GET("/exports/products",
		middleware.ValidateToken, middleware.RequireStaff,
		productcontroller.ExportProductsToExcel(db))
}
